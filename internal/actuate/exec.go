package actuate

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/ayusman/mudra/internal/mapping"
)

// DefaultExecTimeout bounds a single helper-tool invocation.
const DefaultExecTimeout = 500 * time.Millisecond

// ExecActuator drives the cursor through an external helper tool with an
// xdotool-compatible command surface (mousemove/mousedown/mouseup). It is
// the fallback for setups where robotgo's native bindings are unavailable.
type ExecActuator struct {
	tool    string
	timeout time.Duration

	// runCmd is swapped out in tests.
	runCmd func(ctx context.Context, tool string, args []string) error
}

// NewExecActuator creates an actuator that shells out to the given tool
// (e.g. "xdotool"). A non-positive timeout falls back to the default.
func NewExecActuator(tool string, timeout time.Duration) *ExecActuator {
	if timeout <= 0 {
		timeout = DefaultExecTimeout
	}
	return &ExecActuator{
		tool:    tool,
		timeout: timeout,
		runCmd: func(ctx context.Context, tool string, args []string) error {
			return exec.CommandContext(ctx, tool, args...).Run()
		},
	}
}

func (a *ExecActuator) run(args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.runCmd(ctx, a.tool, args); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s %v: timeout after %s", a.tool, args, a.timeout)
		}
		return fmt.Errorf("%s %v: %w", a.tool, args, err)
	}
	return nil
}

// MoveTo moves the cursor to the given screen position.
func (a *ExecActuator) MoveTo(p mapping.Point) error {
	return a.run("mousemove", strconv.Itoa(int(p.X)), strconv.Itoa(int(p.Y)))
}

// PressDown presses and holds the left button.
func (a *ExecActuator) PressDown() error {
	return a.run("mousedown", "1")
}

// PressUp releases the left button.
func (a *ExecActuator) PressUp() error {
	return a.run("mouseup", "1")
}

// Click completes an engaged press as a click by releasing the button.
func (a *ExecActuator) Click() error {
	return a.run("mouseup", "1")
}
