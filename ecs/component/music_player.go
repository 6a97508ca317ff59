package component

import (
	"time"

	"github.com/milk9111/valentine/deck"
	"github.com/milk9111/valentine/timer"
)

// AudioOutput is the single shared playback handle the music system drives.
type AudioOutput interface {
	SetSource(src string) error
	SetLoop(loop bool)
	SetPosition(seconds float64) error
	Play() error
	Pause()
	SetVolume(v float64)
}

type MusicPhase int

const (
	MusicIdle MusicPhase = iota
	MusicFadingOut
	MusicFadingIn
)

func (p MusicPhase) String() string {
	switch p {
	case MusicIdle:
		return "idle"
	case MusicFadingOut:
		return "fading-out"
	case MusicFadingIn:
		return "fading-in"
	default:
		return "unknown"
	}
}

// MusicPlayer stores global music playback state on a dedicated ECS entity.
// The music system mutates this component; nothing else touches Output.
type MusicPlayer struct {
	Output AudioOutput

	CurrentTrack string
	CurrentLoop  bool
	Volume       float64
	Playing      bool

	Phase   MusicPhase
	Pending *deck.Track
	Fade    *timer.Task

	FadeOut time.Duration
	FadeIn  time.Duration
	// Master scales every volume sent to Output.
	Master float64
}

var MusicPlayerComponent = NewComponent[MusicPlayer]()
