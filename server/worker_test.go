package server

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/tilde/interp"
	"github.com/chazu/tilde/value"
)

func TestWorkerDo(t *testing.T) {
	w := NewWorker(interp.New())
	defer w.Stop()

	got, err := w.Do(func(in *interp.Interpreter) interface{} {
		v, err := in.EvalString("2 + 3 * 4")
		if err != nil {
			return err
		}
		return v
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if v, ok := got.(value.Value); !ok || v.String() != "14" {
		t.Errorf("Do result = %v, want 14", got)
	}
}

func TestWorkerRecoversPanic(t *testing.T) {
	w := NewWorker(interp.New())
	defer w.Stop()

	_, err := w.Do(func(*interp.Interpreter) interface{} {
		panic("boom")
	})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected panic error, got %v", err)
	}

	// The worker keeps serving after a panic.
	got, err := w.Do(func(*interp.Interpreter) interface{} { return 1 })
	if err != nil || got != 1 {
		t.Errorf("Do after panic = %v, %v", got, err)
	}
}

func TestWorkerSerializes(t *testing.T) {
	w := NewWorker(interp.New())
	defer w.Stop()

	if _, err := w.Do(func(in *interp.Interpreter) interface{} {
		_, err := in.EvalString("n <- 0")
		return err
	}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Do(func(in *interp.Interpreter) interface{} {
				_, err := in.EvalString("n <- n + 1")
				return err
			})
		}()
	}
	wg.Wait()

	got, _ := w.Do(func(in *interp.Interpreter) interface{} {
		v, _ := in.EvalString("n")
		return v.String()
	})
	if got != "20" {
		t.Errorf("n = %v, want 20", got)
	}
}

func TestWorkerStopped(t *testing.T) {
	w := NewWorker(interp.New())
	w.Stop()
	w.Stop()

	done := make(chan error, 1)
	go func() {
		_, err := w.Do(func(*interp.Interpreter) interface{} { return 1 })
		done <- err
	}()
	select {
	case err := <-done:
		if !errors.Is(err, ErrWorkerStopped) {
			t.Errorf("Do after Stop: error = %v, want %v", err, ErrWorkerStopped)
		}
	case <-time.After(time.Second):
		t.Fatal("Do after Stop did not return")
	}
}
