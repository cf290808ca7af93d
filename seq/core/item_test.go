package core

import (
	"errors"
	"strings"
	"testing"
)

func TestItemStates(t *testing.T) {
	v := Val(42)
	if v.IsErr() {
		t.Fatal("value item reported as error")
	}
	if v.Value() != 42 {
		t.Errorf("got %d, want 42", v.Value())
	}
	if v.Err() != nil {
		t.Errorf("value item carries error %v", v.Err())
	}

	errBad := errors.New("bad")
	e := Fail[int](errBad)
	if !e.IsErr() {
		t.Fatal("error item not reported as error")
	}
	if e.Err() != errBad {
		t.Errorf("got %v, want the exact error", e.Err())
	}

	val, err := e.Unpack()
	if val != 0 || err != errBad {
		t.Errorf("Unpack got (%d, %v)", val, err)
	}
}

func TestRecast(t *testing.T) {
	errBad := errors.New("bad")
	recast := Recast[int, string](Fail[int](errBad))
	if !recast.IsErr() || recast.Err() != errBad {
		t.Fatalf("recast lost the error: %v", recast.Err())
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic recasting a value item")
		}
	}()
	Recast[int, string](Val(1))
}

func TestPanicError(t *testing.T) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = NewPanicError(r)
			}
		}()
		panic("kaboom")
	}()

	var pe PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a PanicError, got %T", err)
	}
	if pe.Value != "kaboom" {
		t.Errorf("panic value %v, want kaboom", pe.Value)
	}
	if !strings.Contains(pe.Error(), "kaboom") {
		t.Errorf("message %q does not mention the panic value", pe.Error())
	}
}
