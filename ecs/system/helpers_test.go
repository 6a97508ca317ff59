package system

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/milk9111/valentine/deck"
	"github.com/milk9111/valentine/ecs"
	"github.com/milk9111/valentine/ecs/component"
	"github.com/milk9111/valentine/timer"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 2, 14, 19, 30, 0, 0, time.UTC)

var errAutoplay = errors.New("play() failed because the user didn't interact with the document first")

type outputCall struct {
	Op    string
	Value float64
	Src   string
	Loop  bool
}

func (c outputCall) String() string {
	switch c.Op {
	case "source":
		return "source:" + c.Src
	case "loop":
		return fmt.Sprintf("loop:%v", c.Loop)
	case "seek", "volume":
		return fmt.Sprintf("%s:%.3f", c.Op, c.Value)
	default:
		return c.Op
	}
}

// fakeOutput records every call made by the music system.
type fakeOutput struct {
	calls []outputCall

	source  string
	loop    bool
	pos     float64
	volume  float64
	playing bool

	playErr   error
	seekErr   error
	sourceErr map[string]error
}

func (f *fakeOutput) SetSource(src string) error {
	f.calls = append(f.calls, outputCall{Op: "source", Src: src})
	if err := f.sourceErr[src]; err != nil {
		return err
	}
	f.source = src
	f.playing = false
	f.pos = 0
	return nil
}

func (f *fakeOutput) SetLoop(loop bool) {
	f.calls = append(f.calls, outputCall{Op: "loop", Loop: loop})
	f.loop = loop
}

func (f *fakeOutput) SetPosition(seconds float64) error {
	f.calls = append(f.calls, outputCall{Op: "seek", Value: seconds})
	if f.seekErr != nil {
		return f.seekErr
	}
	f.pos = seconds
	return nil
}

func (f *fakeOutput) Play() error {
	f.calls = append(f.calls, outputCall{Op: "play"})
	if f.playErr != nil {
		return f.playErr
	}
	f.playing = true
	return nil
}

func (f *fakeOutput) Pause() {
	f.calls = append(f.calls, outputCall{Op: "pause"})
	f.playing = false
}

func (f *fakeOutput) SetVolume(v float64) {
	f.calls = append(f.calls, outputCall{Op: "volume", Value: v})
	f.volume = v
}

// ops returns the recorded calls without volume steps.
func (f *fakeOutput) ops() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		if c.Op == "volume" {
			continue
		}
		out = append(out, c.String())
	}
	return out
}

func (f *fakeOutput) reset() {
	f.calls = nil
}

func (f *fakeOutput) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func startAt(v float64) *float64 { return &v }

func testDeck(t *testing.T, n int, intro *deck.Track, music map[int]deck.Track) *deck.Deck {
	t.Helper()
	spec := &deck.Spec{Music: music, Intro: deck.IntroSpec{Track: intro}}
	for i := 1; i <= n; i++ {
		spec.Slides = append(spec.Slides, deck.SlideSpec{Title: fmt.Sprintf("slide %d", i)})
	}
	d, err := deck.Build(spec)
	require.NoError(t, err)
	return d
}

type harness struct {
	t     *testing.T
	w     *ecs.World
	clock *timer.ManualClock
	out   *fakeOutput
}

func newHarness(t *testing.T, d *deck.Deck) *harness {
	t.Helper()
	clock := timer.NewManualClock(epoch)
	out := &fakeOutput{}
	w, err := NewSessionWorld(SessionConfig{Deck: d, Output: out, Clock: clock})
	require.NoError(t, err)
	return &harness{t: t, w: w, clock: clock, out: out}
}

// step advances the clock by d and runs one frame.
func (h *harness) step(d time.Duration) {
	h.clock.Advance(d)
	h.w.Update()
}

// settle runs 16ms frames until d has passed.
func (h *harness) settle(d time.Duration) {
	const frame = 16 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		h.step(frame)
	}
}

func (h *harness) press(action component.StageAction) {
	RequestStage(h.w, action)
	h.w.Update()
}

// enterSlides walks gate -> intro -> slides.
func (h *harness) enterSlides() {
	h.press(component.ActionConfirm)
	h.press(component.ActionStart)
	require.Equal(h.t, component.StageSlides, CurrentStage(h.w))
}

func (h *harness) wheel(delta float64) {
	PushWheel(h.w, delta, component.InputWheel)
	h.w.Update()
}

func (h *harness) index() int {
	cursor, ok := ecs.Singleton(h.w, component.SlideCursorComponent.Kind())
	require.True(h.t, ok)
	return cursor.Index
}

func (h *harness) gesture() *component.Gesture {
	g, ok := ecs.Singleton(h.w, component.GestureComponent.Kind())
	require.True(h.t, ok)
	return g
}

func (h *harness) player() *component.MusicPlayer {
	p, ok := ecs.Singleton(h.w, component.MusicPlayerComponent.Kind())
	require.True(h.t, ok)
	return p
}
