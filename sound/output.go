package sound

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/valentine/common"
	"github.com/milk9111/valentine/ecs/component"
)

var (
	ErrNoSource    = errors.New("sound: no source loaded")
	ErrSeekPastEnd = errors.New("sound: position past end of track")
)

var _ component.AudioOutput = (*Output)(nil)

// Output drives a single ebiten audio player for the music system. One
// player exists at a time; changing the source or the loop flag replaces it.
type Output struct {
	ctx *audio.Context
	lib *Library
	log *log.Logger

	clip   *Clip
	loop   bool
	volume float64
	player *audio.Player
}

func NewOutput(ctx *audio.Context, lib *Library, logger *log.Logger) *Output {
	if logger == nil {
		logger = common.NopLogger()
	}
	return &Output{ctx: ctx, lib: lib, log: logger.With("component", "sound"), volume: 1}
}

func (o *Output) SetSource(src string) error {
	clip, err := o.lib.Clip(src)
	if err != nil {
		return err
	}
	o.closePlayer()
	o.clip = clip
	return o.rebuild(0)
}

func (o *Output) SetLoop(loop bool) {
	if o.loop == loop {
		return
	}
	o.loop = loop
	if o.player == nil {
		return
	}
	pos := o.player.Position()
	playing := o.player.IsPlaying()
	o.closePlayer()
	if err := o.rebuild(pos); err != nil {
		o.log.Warn("rebuild player", "track", o.clip.Source, "err", err)
		return
	}
	if playing {
		o.player.Play()
	}
}

// SetPosition seeks to seconds from the start. Looping tracks wrap; others
// reject positions past the end.
func (o *Output) SetPosition(seconds float64) error {
	if o.player == nil {
		return ErrNoSource
	}
	pos := time.Duration(seconds * float64(time.Second))
	if pos < 0 {
		pos = 0
	}
	length := o.clip.Duration()
	if length > 0 && pos >= length {
		if !o.loop {
			return fmt.Errorf("%w: %s >= %s", ErrSeekPastEnd, pos, length)
		}
		pos %= length
	}
	return o.player.SetPosition(pos)
}

func (o *Output) Play() error {
	if o.player == nil {
		return ErrNoSource
	}
	o.player.Play()
	return nil
}

func (o *Output) Pause() {
	if o.player != nil {
		o.player.Pause()
	}
}

func (o *Output) SetVolume(v float64) {
	o.volume = common.Clamp(v, 0, 1)
	if o.player != nil {
		o.player.SetVolume(o.volume)
	}
}

// Close releases the current player.
func (o *Output) Close() error {
	o.closePlayer()
	o.clip = nil
	return nil
}

func (o *Output) rebuild(pos time.Duration) error {
	if o.clip == nil {
		return ErrNoSource
	}
	var stream io.ReadSeeker = bytes.NewReader(o.clip.PCM)
	if o.loop {
		stream = audio.NewInfiniteLoop(stream, int64(len(o.clip.PCM)))
	}
	player, err := o.ctx.NewPlayer(stream)
	if err != nil {
		return err
	}
	player.SetVolume(o.volume)
	if pos > 0 {
		if err := player.SetPosition(pos); err != nil {
			o.log.Debug("restore position", "track", o.clip.Source, "err", err)
		}
	}
	o.player = player
	return nil
}

func (o *Output) closePlayer() {
	if o.player == nil {
		return
	}
	o.player.Pause()
	if err := o.player.Close(); err != nil {
		o.log.Debug("close player", "err", err)
	}
	o.player = nil
}
