package system

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/valentine/common"
	"github.com/milk9111/valentine/deck"
	"github.com/milk9111/valentine/ecs"
	"github.com/milk9111/valentine/ecs/component"
)

// fadeStep is how often a running fade updates the output volume.
const fadeStep = 16 * time.Millisecond

type MusicSystem struct {
	log *log.Logger
}

func NewMusicSystem(logger *log.Logger) *MusicSystem {
	if logger == nil {
		logger = common.NopLogger()
	}
	return &MusicSystem{log: logger.With("system", "music")}
}

func RequestMusic(w *ecs.World, track deck.Track) {
	RequestMusicWithOptions(w, &component.MusicRequest{Track: track})
}

func RequestMusicWithOptions(w *ecs.World, req *component.MusicRequest) {
	if w == nil || req == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.MusicRequestComponent.Kind(), req)
}

func StopMusic(w *ecs.World) {
	RequestMusicWithOptions(w, &component.MusicRequest{Stop: true})
}

func (m *MusicSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	latest, requestEntities := m.consumeLatestRequest(w)
	for _, ent := range requestEntities {
		ecs.DestroyEntity(w, ent)
	}
	if latest == nil {
		return
	}

	player, ok := ecs.Singleton(w, component.MusicPlayerComponent.Kind())
	if !ok || player == nil || player.Output == nil {
		return
	}
	m.applyRequest(w, player, *latest)
}

func (m *MusicSystem) consumeLatestRequest(w *ecs.World) (*component.MusicRequest, []ecs.Entity) {
	var latest *component.MusicRequest
	requestEntities := make([]ecs.Entity, 0)

	ecs.ForEach(w, component.MusicRequestComponent.Kind(), func(ent ecs.Entity, req *component.MusicRequest) {
		requestEntities = append(requestEntities, ent)
		copy := *req
		latest = &copy
	})

	return latest, requestEntities
}

func (m *MusicSystem) applyRequest(w *ecs.World, player *component.MusicPlayer, req component.MusicRequest) {
	track := req.Track
	track.Source = strings.TrimSpace(track.Source)

	if req.Stop || track.Source == "" {
		player.Pending = nil
		if player.CurrentTrack == "" {
			cancelFade(player)
			player.Phase = component.MusicIdle
			return
		}
		m.fadeOut(w, player)
		return
	}

	if player.CurrentTrack == track.Source && !track.HasStart() {
		m.keepCurrent(w, player)
		return
	}

	cancelFade(player)
	player.Pending = &track
	if player.CurrentTrack == "" || !player.Playing {
		m.switchToPending(w, player)
		return
	}
	m.fadeOut(w, player)
}

// keepCurrent handles a request for the song that is already loaded.
func (m *MusicSystem) keepCurrent(w *ecs.World, player *component.MusicPlayer) {
	if player.Phase == component.MusicFadingOut {
		// The song was on its way out; bring it back without a restart.
		cancelFade(player)
		player.Pending = nil
		m.fadeIn(w, player)
	}
	if !player.Playing {
		m.play(player)
	}
}

func (m *MusicSystem) fadeOut(w *ecs.World, player *component.MusicPlayer) {
	cancelFade(player)
	player.Phase = component.MusicFadingOut
	m.ramp(w, player, player.Volume, 0, player.FadeOut, func() {
		player.Output.Pause()
		player.Playing = false
		player.CurrentTrack = ""
		player.CurrentLoop = false
		if player.Pending == nil {
			player.Phase = component.MusicIdle
			return
		}
		m.switchToPending(w, player)
	})
}

func (m *MusicSystem) fadeIn(w *ecs.World, player *component.MusicPlayer) {
	player.Phase = component.MusicFadingIn
	m.ramp(w, player, player.Volume, 1, player.FadeIn, func() {
		player.Phase = component.MusicIdle
	})
}

func (m *MusicSystem) switchToPending(w *ecs.World, player *component.MusicPlayer) {
	if player.Pending == nil {
		return
	}
	track := *player.Pending
	player.Pending = nil
	out := player.Output

	if err := out.SetSource(track.Source); err != nil {
		m.log.Warn("load track", "track", track.Source, "err", err)
		player.CurrentTrack = ""
		player.CurrentLoop = false
		player.Playing = false
		player.Phase = component.MusicIdle
		return
	}
	out.SetLoop(track.Loop)
	player.Volume = 0
	out.SetVolume(0)
	if err := out.SetPosition(track.Offset()); err != nil {
		m.log.Debug("seek ignored", "track", track.Source, "offset", track.Offset(), "err", err)
	}

	player.CurrentTrack = track.Source
	player.CurrentLoop = track.Loop
	m.play(player)
	m.log.Debug("track switched", "track", track.Source, "offset", track.Offset(), "loop", track.Loop)
	m.fadeIn(w, player)
}

// play starts the output. A rejection (autoplay policy, nothing loaded) is
// dropped; the next request for the same song tries again.
func (m *MusicSystem) play(player *component.MusicPlayer) {
	if err := player.Output.Play(); err != nil {
		m.log.Debug("play rejected", "track", player.CurrentTrack, "err", err)
		player.Playing = false
		return
	}
	player.Playing = true
}

// ramp moves the volume from -> to over d using scheduler tasks, then calls
// done. Only one ramp runs at a time; player.Fade is the live task.
func (m *MusicSystem) ramp(w *ecs.World, player *component.MusicPlayer, from, to float64, d time.Duration, done func()) {
	sched := w.Scheduler()
	if sched == nil || d <= 0 {
		setVolume(player, to)
		player.Fade = nil
		done()
		return
	}

	start := sched.Now()
	setVolume(player, from)

	var step func()
	step = func() {
		t := float64(sched.Now().Sub(start)) / float64(d)
		if t >= 1 {
			setVolume(player, to)
			player.Fade = nil
			done()
			return
		}
		setVolume(player, common.Lerp(from, to, common.Clamp(t, 0, 1)))
		player.Fade = sched.After(fadeStep, step)
	}
	player.Fade = sched.After(fadeStep, step)
}

func setVolume(player *component.MusicPlayer, v float64) {
	player.Volume = common.Clamp(v, 0, 1)
	player.Output.SetVolume(player.Volume * player.Master)
}

func cancelFade(player *component.MusicPlayer) {
	if player.Fade != nil {
		player.Fade.Cancel()
		player.Fade = nil
	}
}

// HaltMusic cancels any fade and pauses the output. Used on teardown.
func HaltMusic(w *ecs.World) {
	player, ok := ecs.Singleton(w, component.MusicPlayerComponent.Kind())
	if !ok || player == nil {
		return
	}
	cancelFade(player)
	player.Pending = nil
	player.Phase = component.MusicIdle
	if player.Output != nil {
		player.Output.Pause()
	}
	player.Playing = false
}
