package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/valentine/common"
	"github.com/milk9111/valentine/ecs"
	"github.com/milk9111/valentine/ecs/component"
)

// GestureSystem turns bursts of wheel events into single slide moves. The
// first event of a burst moves the cursor and locks; every later event only
// pushes the unlock out by another quiet interval.
type GestureSystem struct {
	log *log.Logger
}

func NewGestureSystem(logger *log.Logger) *GestureSystem {
	if logger == nil {
		logger = common.NopLogger()
	}
	return &GestureSystem{log: logger.With("system", "gesture")}
}

// PushWheel queues a wheel step for the gesture system.
func PushWheel(w *ecs.World, deltaY float64, source component.InputSource) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.WheelEventComponent.Kind(), &component.WheelEvent{DeltaY: deltaY, Source: source})
}

func (s *GestureSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	gesture, _ := ecs.Singleton(w, component.GestureComponent.Kind())
	cursor, _ := ecs.Singleton(w, component.SlideCursorComponent.Kind())

	ecs.ForEach(w, component.WheelEventComponent.Kind(), func(ent ecs.Entity, ev *component.WheelEvent) {
		delta := ev.DeltaY
		ecs.DestroyEntity(w, ent)
		if gesture == nil || cursor == nil || !gesture.Attached || delta == 0 {
			return
		}
		s.handle(w, gesture, cursor, delta)
	})
}

func (s *GestureSystem) handle(w *ecs.World, gesture *component.Gesture, cursor *component.SlideCursor, delta float64) {
	if gesture.Locked {
		gesture.Absorbed++
		s.scheduleUnlock(w, gesture)
		return
	}

	gesture.Locked = true
	gesture.Bursts++
	step := 1
	if delta < 0 {
		step = -1
	}
	next := common.Clamp(cursor.Index+step, 1, cursor.Count)
	if next != cursor.Index {
		s.log.Debug("slide", "from", cursor.Index, "to", next)
		cursor.Index = next
		gesture.Moves++
	}
	s.scheduleUnlock(w, gesture)
}

func (s *GestureSystem) scheduleUnlock(w *ecs.World, gesture *component.Gesture) {
	if gesture.Unlock != nil {
		gesture.Unlock.Cancel()
	}
	sched := w.Scheduler()
	if sched == nil {
		gesture.Unlock = nil
		return
	}
	gesture.Unlock = sched.After(gesture.QuietInterval, func() {
		gesture.Locked = false
		gesture.Unlock = nil
	})
}

// AttachGesture starts listening for wheel input.
func AttachGesture(w *ecs.World) {
	gesture, ok := ecs.Singleton(w, component.GestureComponent.Kind())
	if !ok || gesture == nil {
		return
	}
	gesture.Attached = true
}

// DetachGesture stops listening, drops queued events, cancels the unlock task
// and clears the lock so nothing leaks into a later stage.
func DetachGesture(w *ecs.World) {
	ecs.ForEach(w, component.WheelEventComponent.Kind(), func(ent ecs.Entity, _ *component.WheelEvent) {
		ecs.DestroyEntity(w, ent)
	})
	gesture, ok := ecs.Singleton(w, component.GestureComponent.Kind())
	if !ok || gesture == nil {
		return
	}
	if gesture.Unlock != nil {
		gesture.Unlock.Cancel()
		gesture.Unlock = nil
	}
	gesture.Locked = false
	gesture.Attached = false
}
