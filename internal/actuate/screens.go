package actuate

import (
	"github.com/go-vgo/robotgo"

	"github.com/ayusman/mudra/internal/mapping"
)

// Screens returns the current display geometry as a point-in-time
// snapshot. Display 0 is treated as primary.
func Screens() mapping.Geometry {
	n := robotgo.DisplaysNum()

	rects := make([]mapping.Rect, 0, n)
	for i := 0; i < n; i++ {
		x, y, w, h := robotgo.GetDisplayBounds(i)
		rects = append(rects, mapping.Rect{
			X: float64(x), Y: float64(y),
			W: float64(w), H: float64(h),
		})
	}

	if len(rects) == 0 {
		// Headless fallback: a single screen-sized rectangle.
		w, h := robotgo.GetScreenSize()
		rects = append(rects, mapping.Rect{W: float64(w), H: float64(h)})
	}

	return mapping.Geometry{Rects: rects, Primary: 0}
}
