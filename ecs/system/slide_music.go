package system

import (
	"github.com/milk9111/valentine/ecs"
	"github.com/milk9111/valentine/ecs/component"
)

// SlideMusicSystem requests the track registered for the current slide each
// time the index changes. Slides without a track leave the music alone.
type SlideMusicSystem struct{}

func NewSlideMusicSystem() *SlideMusicSystem { return &SlideMusicSystem{} }

func (s *SlideMusicSystem) Update(w *ecs.World) {
	if w == nil || CurrentStage(w) != component.StageSlides {
		return
	}
	cursor, ok := ecs.Singleton(w, component.SlideCursorComponent.Kind())
	if !ok || cursor.Index == cursor.MusicIndex {
		return
	}
	cursor.MusicIndex = cursor.Index

	ref, ok := ecs.Singleton(w, component.DeckComponent.Kind())
	if !ok || ref.Deck == nil {
		return
	}
	if track, ok := ref.Deck.Track(cursor.Index); ok {
		RequestMusic(w, track)
	}
}
