package command

import (
	"errors"
	"testing"
)

func TestExecuteReturnsResult(t *testing.T) {
	bus := New()
	cause := errors.New("boom")
	ran := false
	cmd := bus.Execute(Request{ID: "disconnect", Label: "/disconnect", Handler: func() (string, error) {
		ran = true
		return "done", cause
	}})
	if !ran {
		t.Fatalf("expected the handler to run before Execute returns")
	}
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	res, ok := cmd().(Result)
	if !ok {
		t.Fatalf("expected Result message")
	}
	if res.ID != "disconnect" || res.Label != "/disconnect" || res.Info != "done" || !errors.Is(res.Err, cause) {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestExecuteWithoutHandlerYieldsNothing(t *testing.T) {
	if cmd := New().Execute(Request{ID: "noop", Label: "noop"}); cmd != nil {
		t.Fatalf("expected no command without a handler")
	}
}
