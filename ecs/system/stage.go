package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/valentine/common"
	"github.com/milk9111/valentine/ecs"
	"github.com/milk9111/valentine/ecs/component"
)

// StageSystem runs the gate -> intro -> slides flow (or gate -> nope).
// Requests that make no sense for the current phase are dropped.
type StageSystem struct {
	log *log.Logger
}

func NewStageSystem(logger *log.Logger) *StageSystem {
	if logger == nil {
		logger = common.NopLogger()
	}
	return &StageSystem{log: logger.With("system", "stage")}
}

// RequestStage queues a button press.
func RequestStage(w *ecs.World, action component.StageAction) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.StageRequestComponent.Kind(), &component.StageRequest{Action: action})
}

func (s *StageSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	stage, _ := ecs.Singleton(w, component.StageComponent.Kind())

	ecs.ForEach(w, component.StageRequestComponent.Kind(), func(ent ecs.Entity, req *component.StageRequest) {
		action := req.Action
		ecs.DestroyEntity(w, ent)
		if stage == nil {
			return
		}
		s.handle(w, stage, action)
	})
}

func (s *StageSystem) handle(w *ecs.World, stage *component.Stage, action component.StageAction) {
	from := stage.Phase
	switch {
	case from == component.StageGate && action == component.ActionConfirm:
		stage.Phase = component.StageIntro
		if ref, ok := ecs.Singleton(w, component.DeckComponent.Kind()); ok && ref.Deck != nil && ref.Deck.Intro.Track != nil {
			RequestMusic(w, *ref.Deck.Intro.Track)
		}
	case from == component.StageGate && action == component.ActionDecline:
		stage.Phase = component.StageNope
	case from == component.StageIntro && action == component.ActionStart:
		stage.Phase = component.StageSlides
		if cursor, ok := ecs.Singleton(w, component.SlideCursorComponent.Kind()); ok {
			cursor.Index = 1
			cursor.MusicIndex = 0
		}
		AttachGesture(w)
	default:
		s.log.Debug("ignored stage request", "phase", from, "action", action)
		return
	}
	s.log.Info("stage", "from", from, "to", stage.Phase)
}

// CurrentStage returns the session phase, gate when no stage exists.
func CurrentStage(w *ecs.World) component.StagePhase {
	stage, ok := ecs.Singleton(w, component.StageComponent.Kind())
	if !ok || stage == nil {
		return component.StageGate
	}
	return stage.Phase
}
