package actuate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mapping"
)

func TestApply_Dispatch(t *testing.T) {
	tests := []struct {
		name   string
		event  gesture.Event
		wantOp string
	}{
		{"move", gesture.Event{Kind: gesture.EventMove, Point: mapping.Point{X: 10, Y: 20}}, "move"},
		{"press start", gesture.Event{Kind: gesture.EventPressStart}, "down"},
		{"press end", gesture.Event{Kind: gesture.EventPressEnd}, "up"},
		{"click", gesture.Event{Kind: gesture.EventClick}, "click"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockActuator()
			if err := Apply(m, tt.event); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}

			calls := m.Calls()
			if len(calls) != 1 || calls[0].Op != tt.wantOp {
				t.Errorf("calls = %v, want single %q", calls, tt.wantOp)
			}
			if tt.wantOp == "move" && calls[0].Point != tt.event.Point {
				t.Errorf("move point = %v, want %v", calls[0].Point, tt.event.Point)
			}
		})
	}
}

func TestApply_PropagatesError(t *testing.T) {
	m := NewMockActuator()
	wantErr := errors.New("injection denied")
	m.SetError(wantErr)

	if err := Apply(m, gesture.Event{Kind: gesture.EventPressStart}); !errors.Is(err, wantErr) {
		t.Errorf("Apply() error = %v, want %v", err, wantErr)
	}
}

func TestExecActuator_Commands(t *testing.T) {
	var gotTool string
	var gotArgs [][]string

	a := NewExecActuator("xdotool", time.Second)
	a.runCmd = func(ctx context.Context, tool string, args []string) error {
		gotTool = tool
		gotArgs = append(gotArgs, args)
		return nil
	}

	if err := a.MoveTo(mapping.Point{X: 960.7, Y: 540.2}); err != nil {
		t.Fatalf("MoveTo() error = %v", err)
	}
	a.PressDown()
	a.PressUp()
	a.Click()

	if gotTool != "xdotool" {
		t.Errorf("tool = %q, want xdotool", gotTool)
	}

	want := [][]string{
		{"mousemove", "960", "540"},
		{"mousedown", "1"},
		{"mouseup", "1"},
		{"mouseup", "1"},
	}
	if len(gotArgs) != len(want) {
		t.Fatalf("got %d invocations, want %d", len(gotArgs), len(want))
	}
	for i := range want {
		if len(gotArgs[i]) != len(want[i]) {
			t.Fatalf("invocation %d = %v, want %v", i, gotArgs[i], want[i])
		}
		for j := range want[i] {
			if gotArgs[i][j] != want[i][j] {
				t.Errorf("invocation %d = %v, want %v", i, gotArgs[i], want[i])
				break
			}
		}
	}
}

func TestExecActuator_ErrorWraps(t *testing.T) {
	a := NewExecActuator("xdotool", time.Second)
	wantErr := errors.New("exit status 1")
	a.runCmd = func(ctx context.Context, tool string, args []string) error {
		return wantErr
	}

	if err := a.PressDown(); !errors.Is(err, wantErr) {
		t.Errorf("PressDown() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestNewExecActuator_DefaultTimeout(t *testing.T) {
	a := NewExecActuator("xdotool", 0)
	if a.timeout != DefaultExecTimeout {
		t.Errorf("timeout = %v, want %v", a.timeout, DefaultExecTimeout)
	}
}
