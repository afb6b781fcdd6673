package app

import (
	"context"
	"testing"
	"time"
)

func TestIntake_DispatchesLines(t *testing.T) {
	coord := NewCoordinator(&mockLogger{}, nil)
	if err := coord.Arm(); err != nil {
		t.Fatal(err)
	}

	got := make(chan []string, 4)
	d := NewDispatcher(&mockLogger{})
	if err := d.Register("echo", func(_ context.Context, args []string) error {
		got <- args
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	lines := newFakeLines("echo one", "nonsense", "", "echo two")
	in := NewIntake(lines, d, coord, &mockLogger{})
	done := coord.IntakeDone()
	go in.Run(coord.Context(), done)

	for _, want := range []string{"one", "two"} {
		select {
		case args := <-got:
			if len(args) != 1 || args[0] != want {
				t.Errorf("args = %v, want [%s]", args, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("command %q not dispatched", want)
		}
	}

	coord.RequestStop("test")
	if !waitSignal(done, time.Second) {
		t.Fatal("intake did not stop after RequestStop")
	}
}

func TestIntake_EndOfInput(t *testing.T) {
	coord := NewCoordinator(&mockLogger{}, nil)
	if err := coord.Arm(); err != nil {
		t.Fatal(err)
	}

	logger := &mockLogger{}
	in := NewIntake(newFakeLines("x").endAfterQueued(), NewDispatcher(logger), coord, logger)
	done := coord.IntakeDone()
	go in.Run(coord.Context(), done)

	if !waitSignal(done, time.Second) {
		t.Fatal("intake did not stop at end of input")
	}
	if coord.State() != StateRunning {
		t.Errorf("state = %v, end of input must not request a stop", coord.State())
	}
}

func TestIntake_CloseUnblocksRead(t *testing.T) {
	coord := NewCoordinator(&mockLogger{}, nil)
	if err := coord.Arm(); err != nil {
		t.Fatal(err)
	}

	lines := newFakeLines()
	in := NewIntake(lines, NewDispatcher(&mockLogger{}), coord, &mockLogger{})
	done := coord.IntakeDone()
	go in.Run(context.Background(), done)

	time.Sleep(20 * time.Millisecond)
	if done.IsSet() {
		t.Fatal("intake stopped without input ending")
	}

	lines.Close()
	if !waitSignal(done, time.Second) {
		t.Fatal("intake did not stop after the source was closed")
	}
}

func TestIntake_CommandRequestsStop(t *testing.T) {
	coord := NewCoordinator(&mockLogger{}, nil)
	if err := coord.Arm(); err != nil {
		t.Fatal(err)
	}

	d := NewDispatcher(&mockLogger{})
	if err := d.Register("quit", func(context.Context, []string) error {
		coord.RequestStop("quit command")
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	in := NewIntake(newFakeLines("quit"), d, coord, &mockLogger{})
	done := coord.IntakeDone()
	go in.Run(coord.Context(), done)

	if !waitSignal(done, time.Second) {
		t.Fatal("intake did not stop after quit")
	}
	if coord.State() != StateStopRequested {
		t.Errorf("state = %v, want StateStopRequested", coord.State())
	}
}
