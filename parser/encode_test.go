package parser

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeIgnoresLayout(t *testing.T) {
	a := mustParse(t, "x <- 1 + 2\n")
	b := mustParse(t, "\n\nx<-1+2   # same tree\n")

	ea, err := Encode(a)
	if err != nil {
		t.Fatal(err)
	}
	eb, err := Encode(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ea, eb) {
		t.Error("layout change altered the encoding")
	}

	sa, err := EncodeWithSpans(a)
	if err != nil {
		t.Fatal(err)
	}
	sb, err := EncodeWithSpans(b)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(sa, sb) {
		t.Error("encodings with spans should differ when positions differ")
	}
}

func TestDigest(t *testing.T) {
	digest := func(src string) [32]byte {
		d, err := Digest(mustParse(t, src))
		if err != nil {
			t.Fatalf("Digest(%q): %v", src, err)
		}
		return d
	}

	if digest("a <- 1 + 2") != digest("a   <-   1+2") {
		t.Error("layout change altered the digest")
	}
	if digest("a <- 1 + 2") == digest("a <- 1 + 3") {
		t.Error("different literals share a digest")
	}
	if digest("a <- 1") == digest("a := 1") {
		t.Error("different assignment kinds share a digest")
	}
}

func TestDiagnose(t *testing.T) {
	e, err := ParseExpr("2 + x")
	if err != nil {
		t.Fatal(err)
	}
	out, err := Diagnose(e)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"BinaryExpr"`, `"IntLit"`, `"Ident"`, `"x"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Diagnose = %s, missing %s", out, want)
		}
	}
}

func TestEncodeConstant(t *testing.T) {
	e, err := ParseExpr("i + 1")
	if err != nil {
		t.Fatal(err)
	}
	out, err := Diagnose(Substitute(e, "i", 42))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"Constant"`) || !strings.Contains(out, `"42"`) {
		t.Errorf("Diagnose = %s, want a Constant holding 42", out)
	}
}

func TestWalk(t *testing.T) {
	prog := mustParse(t, "f <- function(a = 1) { if (a) { g(a) } }\nh(2)")

	calls := 0
	Walk(prog, func(n Node) bool {
		if _, ok := n.(*CallExpr); ok {
			calls++
		}
		return true
	})
	if calls != 2 {
		t.Errorf("found %d calls, want 2", calls)
	}

	calls = 0
	Walk(prog, func(n Node) bool {
		if _, ok := n.(*FuncLit); ok {
			return false
		}
		if _, ok := n.(*CallExpr); ok {
			calls++
		}
		return true
	})
	if calls != 1 {
		t.Errorf("found %d calls outside functions, want 1", calls)
	}
}
