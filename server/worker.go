package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chazu/tilde/interp"
)

// ErrWorkerStopped is returned by Do once the worker has been stopped.
var ErrWorkerStopped = errors.New("interpreter worker stopped")

// job is one interpreter operation queued for the worker goroutine.
type job struct {
	fn    func(*interp.Interpreter) interface{}
	reply chan outcome
}

type outcome struct {
	value interface{}
	err   error
}

// Worker owns an Interpreter and runs every operation on it from a single
// goroutine. LSP handlers run concurrently, so they reach the interpreter
// only through Do.
type Worker struct {
	in   *interp.Interpreter
	jobs chan job
	quit chan struct{}
	stop sync.Once
}

// NewWorker starts a worker goroutine for in.
func NewWorker(in *interp.Interpreter) *Worker {
	w := &Worker{
		in:   in,
		jobs: make(chan job, 64),
		quit: make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *Worker) loop() {
	for {
		select {
		case j := <-w.jobs:
			j.reply <- w.run(j.fn)
		case <-w.quit:
			return
		}
	}
}

// run calls fn, turning a panic into an error so that one bad request
// does not take the server down.
func (w *Worker) run(fn func(*interp.Interpreter) interface{}) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("interpreter panic: %v", r)
			out = outcome{err: fmt.Errorf("interpreter panic: %v", r)}
		}
	}()
	return outcome{value: fn(w.in)}
}

// Do runs fn on the worker goroutine and waits for its result. After Stop,
// Do returns ErrWorkerStopped without running fn; a call still waiting when
// the worker stops gets the same error.
func (w *Worker) Do(fn func(*interp.Interpreter) interface{}) (interface{}, error) {
	select {
	case <-w.quit:
		return nil, ErrWorkerStopped
	default:
	}

	j := job{fn: fn, reply: make(chan outcome, 1)}
	select {
	case w.jobs <- j:
	case <-w.quit:
		return nil, ErrWorkerStopped
	}
	select {
	case res := <-j.reply:
		return res.value, res.err
	case <-w.quit:
		return nil, ErrWorkerStopped
	}
}

// Stop ends the worker goroutine. It may be called more than once.
func (w *Worker) Stop() {
	w.stop.Do(func() { close(w.quit) })
}
