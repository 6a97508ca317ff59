package ecs

import (
	"github.com/milk9111/valentine/ecs/component"
	"github.com/milk9111/valentine/timer"
)

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// World owns entities, components, the system order and the timer scheduler
// for one presentation session.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	systems  []System
	timers   *timer.Scheduler
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update fires due timer tasks, then runs all systems once.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.timers.Run()
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
}

// SetScheduler attaches the scheduler polled by Update.
func (w *World) SetScheduler(s *timer.Scheduler) {
	if w == nil {
		return
	}
	w.timers = s
}

// Scheduler returns the attached scheduler, if any.
func (w *World) Scheduler() *timer.Scheduler {
	if w == nil {
		return nil
	}
	return w.timers
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
