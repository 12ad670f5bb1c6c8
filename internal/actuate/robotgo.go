package actuate

import (
	"github.com/go-vgo/robotgo"

	"github.com/ayusman/mudra/internal/mapping"
)

// RobotgoActuator drives the system cursor through robotgo.
type RobotgoActuator struct{}

// NewRobotgoActuator creates an actuator backed by robotgo.
func NewRobotgoActuator() *RobotgoActuator {
	return &RobotgoActuator{}
}

// MoveTo moves the cursor to the given screen position.
func (a *RobotgoActuator) MoveTo(p mapping.Point) error {
	robotgo.Move(int(p.X), int(p.Y))
	return nil
}

// PressDown presses and holds the left button.
func (a *RobotgoActuator) PressDown() error {
	return robotgo.Toggle("left", "down")
}

// PressUp releases the left button.
func (a *RobotgoActuator) PressUp() error {
	return robotgo.Toggle("left", "up")
}

// Click completes an engaged press as a click. The button is already down
// by the time the pipeline classifies a click, so releasing it is what
// makes the OS register one.
func (a *RobotgoActuator) Click() error {
	return robotgo.Toggle("left", "up")
}
