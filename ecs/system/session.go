package system

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/valentine/common"
	"github.com/milk9111/valentine/deck"
	"github.com/milk9111/valentine/ecs"
	"github.com/milk9111/valentine/ecs/component"
	"github.com/milk9111/valentine/timer"
)

var ErrNoDeck = errors.New("system: session needs a deck")

type SessionConfig struct {
	Deck   *deck.Deck
	Output component.AudioOutput
	Clock  timer.Clock
	Logger *log.Logger
	// QuietInterval overrides the deck timing when positive.
	QuietInterval time.Duration
	// Master volume in [0, 1]; zero means full volume.
	Master float64
	// Input is prepended to the system order when set. Headless sessions
	// leave it nil and push events directly.
	Input ecs.System
}

// NewSessionWorld builds the world for one presentation session: singletons
// for stage, cursor, gesture, music and deck, plus the system order
// input -> stage -> gesture -> slide music -> music.
func NewSessionWorld(cfg SessionConfig) (*ecs.World, error) {
	if cfg.Deck == nil {
		return nil, ErrNoDeck
	}
	logger := cfg.Logger
	if logger == nil {
		logger = common.NopLogger()
	}
	quiet := cfg.Deck.Timing.QuietInterval
	if cfg.QuietInterval > 0 {
		quiet = cfg.QuietInterval
	}
	master := cfg.Master
	if master <= 0 {
		master = 1
	}

	w := ecs.NewWorld()
	w.SetScheduler(timer.NewScheduler(cfg.Clock))

	singletons := []func(ecs.Entity) error{
		func(e ecs.Entity) error {
			return ecs.Add(w, e, component.StageComponent.Kind(), &component.Stage{Phase: component.StageGate})
		},
		func(e ecs.Entity) error {
			return ecs.Add(w, e, component.SlideCursorComponent.Kind(), &component.SlideCursor{Index: 1, Count: cfg.Deck.Len()})
		},
		func(e ecs.Entity) error {
			return ecs.Add(w, e, component.GestureComponent.Kind(), &component.Gesture{QuietInterval: quiet})
		},
		func(e ecs.Entity) error {
			return ecs.Add(w, e, component.MusicPlayerComponent.Kind(), &component.MusicPlayer{
				Output:  cfg.Output,
				FadeOut: cfg.Deck.Timing.FadeOut,
				FadeIn:  cfg.Deck.Timing.FadeIn,
				Master:  common.Clamp(master, 0, 1),
			})
		},
		func(e ecs.Entity) error {
			return ecs.Add(w, e, component.DeckComponent.Kind(), &component.DeckRef{Deck: cfg.Deck, Version: 1})
		},
	}
	for _, add := range singletons {
		if err := add(ecs.CreateEntity(w)); err != nil {
			return nil, err
		}
	}

	if cfg.Input != nil {
		w.AddSystem(cfg.Input)
	}
	w.AddSystem(NewStageSystem(logger))
	w.AddSystem(NewGestureSystem(logger))
	w.AddSystem(NewSlideMusicSystem())
	w.AddSystem(NewMusicSystem(logger))
	return w, nil
}

// Teardown ends the session: the gesture listener is detached, fades are
// cancelled, the output is paused and no timer task is left pending.
func Teardown(w *ecs.World) {
	if w == nil {
		return
	}
	DetachGesture(w)
	HaltMusic(w)
	w.Scheduler().CancelAll()
}

// ReloadDeck swaps in a new deck between frames. The cursor is clamped into
// the new range and its track is resolved again.
func ReloadDeck(w *ecs.World, d *deck.Deck) error {
	if d == nil {
		return ErrNoDeck
	}
	ref, ok := ecs.Singleton(w, component.DeckComponent.Kind())
	if !ok {
		return ErrNoDeck
	}
	ref.Deck = d
	ref.Version++

	if cursor, ok := ecs.Singleton(w, component.SlideCursorComponent.Kind()); ok {
		cursor.Count = d.Len()
		cursor.Index = common.Clamp(cursor.Index, 1, cursor.Count)
		cursor.MusicIndex = 0
	}
	if player, ok := ecs.Singleton(w, component.MusicPlayerComponent.Kind()); ok {
		player.FadeOut = d.Timing.FadeOut
		player.FadeIn = d.Timing.FadeIn
	}
	return nil
}

// Snapshot is a read-only view of session state for rendering and logs.
type Snapshot struct {
	Stage        component.StagePhase
	Index        int
	Count        int
	Locked       bool
	Track        string
	Volume       float64
	Playing      bool
	MusicPhase   component.MusicPhase
	DeckVersion  int
	PendingTasks int
}

func TakeSnapshot(w *ecs.World) Snapshot {
	snap := Snapshot{Stage: CurrentStage(w)}
	if cursor, ok := ecs.Singleton(w, component.SlideCursorComponent.Kind()); ok {
		snap.Index = cursor.Index
		snap.Count = cursor.Count
	}
	if gesture, ok := ecs.Singleton(w, component.GestureComponent.Kind()); ok {
		snap.Locked = gesture.Locked
	}
	if player, ok := ecs.Singleton(w, component.MusicPlayerComponent.Kind()); ok {
		snap.Track = player.CurrentTrack
		snap.Volume = player.Volume
		snap.Playing = player.Playing
		snap.MusicPhase = player.Phase
	}
	if ref, ok := ecs.Singleton(w, component.DeckComponent.Kind()); ok {
		snap.DeckVersion = ref.Version
	}
	snap.PendingTasks = w.Scheduler().Pending()
	return snap
}
