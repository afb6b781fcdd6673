package app

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestDispatcher_ShipsEmpty(t *testing.T) {
	d := NewDispatcher(&mockLogger{})
	if got := d.Commands(); len(got) != 0 {
		t.Errorf("Commands() = %v, want none", got)
	}
}

func TestDispatcher_Dispatch(t *testing.T) {
	logger := &mockLogger{}
	d := NewDispatcher(logger)

	var gotArgs []string
	calls := 0
	if err := d.Register("Say", func(ctx context.Context, args []string) error {
		calls++
		gotArgs = args
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		line      string
		wantCalls int
	}{
		{"", 0},
		{"   \t ", 0},
		{"unknown thing", 0},
		{"say hello world", 1},
		{"  SAY   loud ", 2},
	}

	for _, tt := range tests {
		if err := d.Dispatch(context.Background(), tt.line); err != nil {
			t.Errorf("Dispatch(%q) error = %v", tt.line, err)
		}
		if calls != tt.wantCalls {
			t.Errorf("after %q calls = %d, want %d", tt.line, calls, tt.wantCalls)
		}
	}

	if !reflect.DeepEqual(gotArgs, []string{"loud"}) {
		t.Errorf("args = %v, want [loud]", gotArgs)
	}

	debug := 0
	for _, e := range logger.Entries() {
		if e.level == "debug" {
			debug++
		}
	}
	if debug != 3 {
		t.Errorf("debug entries for ignored input = %d, want 3", debug)
	}
}

func TestDispatcher_CommandError(t *testing.T) {
	d := NewDispatcher(&mockLogger{})
	boom := errors.New("boom")
	if err := d.Register("fail", func(context.Context, []string) error { return boom }); err != nil {
		t.Fatal(err)
	}

	if err := d.Dispatch(context.Background(), "fail now"); !errors.Is(err, boom) {
		t.Errorf("Dispatch() error = %v, want wrapped boom", err)
	}
}

func TestDispatcher_Register(t *testing.T) {
	d := NewDispatcher(&mockLogger{})
	noop := func(context.Context, []string) error { return nil }

	if err := d.Register("quit", noop); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		fn      CommandFunc
		wantErr error
	}{
		{"QUIT", noop, ErrDuplicateCommand},
		{"", noop, ErrInvalidCommand},
		{"two words", noop, ErrInvalidCommand},
		{"nil", nil, ErrInvalidCommand},
	}

	for _, tt := range tests {
		if err := d.Register(tt.name, tt.fn); !errors.Is(err, tt.wantErr) {
			t.Errorf("Register(%q) error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}

	if got := d.Commands(); !reflect.DeepEqual(got, []string{"quit"}) {
		t.Errorf("Commands() = %v, want [quit]", got)
	}
}
