package component

type InputSource int

const (
	InputWheel InputSource = iota
	InputKeyboard
)

// WheelEvent is one scroll step. DeltaY > 0 means forward (next slide),
// following the browser convention rather than ebiten's.
type WheelEvent struct {
	DeltaY float64
	Source InputSource
}

var WheelEventComponent = NewComponent[WheelEvent]()
