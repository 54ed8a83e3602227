package batch

import (
	"errors"
	"testing"
)

func TestNewOK(t *testing.T) {
	r := NewOK("doc-1")
	if r.ID() != "doc-1" || !r.OK() || r.Status() != StatusOK {
		t.Errorf("result = %+v", r)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestNewError(t *testing.T) {
	err := errors.New("something failed")
	r := NewError("doc-2", err)
	if r.ID() != "doc-2" || r.OK() || r.Status() != StatusError {
		t.Errorf("result = %+v", r)
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestFailAll(t *testing.T) {
	err := errors.New("index missing")
	out := FailAll([]string{"a", "b"}, err)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	for i, id := range []string{"a", "b"} {
		if out[i].ID() != id || !errors.Is(out[i].Err(), err) {
			t.Errorf("out[%d] = %+v", i, out[i])
		}
	}
	if got := FailAll(nil, err); len(got) != 0 {
		t.Errorf("FailAll(nil) = %v", got)
	}
}

func TestCountAndFirstError(t *testing.T) {
	first := errors.New("first")
	results := []Result{
		NewOK("a"),
		NewError("b", first),
		NewOK("c"),
		NewError("d", errors.New("second")),
		{},
	}

	c := Count(results)
	if c.OK != 2 || c.Failed != 3 {
		t.Errorf("Count = %+v, want 2 ok / 3 failed", c)
	}
	if err := FirstError(results); !errors.Is(err, first) {
		t.Errorf("FirstError = %v, want first", err)
	}
	if err := FirstError([]Result{NewOK("a")}); err != nil {
		t.Errorf("FirstError = %v, want nil", err)
	}
}
