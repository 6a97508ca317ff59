package component

import (
	"time"

	"github.com/milk9111/valentine/timer"
)

// Gesture is the debouncer state. While Locked, wheel events only push the
// Unlock task further out.
type Gesture struct {
	Attached      bool
	Locked        bool
	Unlock        *timer.Task
	QuietInterval time.Duration

	// Bursts counts gestures, Moves the ones that changed the index and
	// Absorbed the events swallowed by a lock.
	Bursts   int
	Moves    int
	Absorbed int
}

var GestureComponent = NewComponent[Gesture]()
