package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/valentine/ecs"
	"github.com/milk9111/valentine/ecs/component"
)

var (
	forwardKeys  = []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyArrowRight, ebiten.KeyPageDown, ebiten.KeySpace}
	backwardKeys = []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyArrowLeft, ebiten.KeyPageUp}
)

// InputSystem polls the wheel and keyboard and queues WheelEvents while the
// gesture listener is attached.
type InputSystem struct{}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	gesture, ok := ecs.Singleton(w, component.GestureComponent.Kind())
	if !ok || !gesture.Attached {
		return
	}

	// ebiten reports wheel-away-from-user as positive; slides treat that as
	// going back.
	if _, dy := ebiten.Wheel(); dy != 0 {
		PushWheel(w, -dy, component.InputWheel)
	}

	for _, k := range forwardKeys {
		if inpututil.IsKeyJustPressed(k) {
			PushWheel(w, 1, component.InputKeyboard)
		}
	}
	for _, k := range backwardKeys {
		if inpututil.IsKeyJustPressed(k) {
			PushWheel(w, -1, component.InputKeyboard)
		}
	}
}
