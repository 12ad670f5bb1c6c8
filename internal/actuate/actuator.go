// Package actuate delivers pointer events to the operating system cursor.
package actuate

import (
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mapping"
)

// Actuator injects pointer actions into the OS. Points are in screen
// coordinates. The pipeline guarantees that Click only arrives while a
// press is engaged (a PressStart was delivered and not yet released), so
// implementations complete that press rather than synthesizing a second
// one.
type Actuator interface {
	MoveTo(p mapping.Point) error
	PressDown() error
	PressUp() error
	Click() error
}

// Apply dispatches a single gesture event to the actuator.
func Apply(a Actuator, ev gesture.Event) error {
	switch ev.Kind {
	case gesture.EventMove:
		return a.MoveTo(ev.Point)
	case gesture.EventPressStart:
		return a.PressDown()
	case gesture.EventPressEnd:
		return a.PressUp()
	case gesture.EventClick:
		return a.Click()
	}
	return nil
}
