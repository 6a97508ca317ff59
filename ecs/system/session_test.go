package system

import (
	"testing"
	"time"

	"github.com/milk9111/valentine/deck"
	"github.com/milk9111/valentine/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionWorldNeedsDeck(t *testing.T) {
	w, err := NewSessionWorld(SessionConfig{})
	assert.ErrorIs(t, err, ErrNoDeck)
	assert.Nil(t, w)
}

func TestSessionStartsAtGate(t *testing.T) {
	h := newHarness(t, testDeck(t, 19, nil, nil))
	snap := TakeSnapshot(h.w)

	assert.Equal(t, component.StageGate, snap.Stage)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, 19, snap.Count)
	assert.False(t, snap.Locked)
	assert.Empty(t, snap.Track)
	assert.Equal(t, 1, snap.DeckVersion)
	assert.Zero(t, snap.PendingTasks)
}

func TestQuietIntervalOverride(t *testing.T) {
	w, err := NewSessionWorld(SessionConfig{
		Deck:          testDeck(t, 2, nil, nil),
		Output:        &fakeOutput{},
		QuietInterval: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	h := &harness{t: t, w: w}
	assert.Equal(t, 50*time.Millisecond, h.gesture().QuietInterval)
}

func TestTeardownDuringFade(t *testing.T) {
	h := newHarness(t, testDeck(t, 3, nil, map[int]deck.Track{1: songA, 2: songB}))
	h.enterSlides()
	h.settle(settleTime)

	h.wheel(1)
	h.settle(48 * time.Millisecond)
	require.Equal(t, component.MusicFadingOut, h.player().Phase)
	require.True(t, h.gesture().Locked)
	h.out.reset()

	Teardown(h.w)

	assert.Equal(t, []string{"pause"}, h.out.ops())
	assert.Zero(t, h.w.Scheduler().Pending())
	assert.False(t, h.gesture().Attached)
	assert.False(t, h.gesture().Locked)
	assert.False(t, h.player().Playing)

	// Nothing fires afterwards and wheel events are ignored.
	h.out.reset()
	h.wheel(1)
	h.settle(settleTime)
	assert.Empty(t, h.out.calls)
	assert.Equal(t, 2, h.index())
}

func TestTeardownIsIdempotent(t *testing.T) {
	h := newHarness(t, testDeck(t, 2, nil, nil))
	Teardown(h.w)
	Teardown(h.w)
	Teardown(nil)
	assert.Zero(t, h.w.Scheduler().Pending())
}

func TestReloadDeck(t *testing.T) {
	cases := []struct {
		name      string
		from, to  int
		at        int
		wantIndex int
	}{
		{"grow", 3, 10, 3, 3},
		{"shrink_clamps", 10, 4, 8, 4},
		{"same_size", 5, 5, 2, 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newHarness(t, testDeck(t, c.from, nil, nil))
			h.enterSlides()
			for h.index() < c.at {
				h.wheel(1)
				h.step(quiet)
			}

			require.NoError(t, ReloadDeck(h.w, testDeck(t, c.to, nil, map[int]deck.Track{c.wantIndex: songB})))
			h.w.Update()

			snap := TakeSnapshot(h.w)
			assert.Equal(t, c.wantIndex, snap.Index)
			assert.Equal(t, c.to, snap.Count)
			assert.Equal(t, 2, snap.DeckVersion)
			assert.Equal(t, songB.Source, snap.Track, "track for the clamped slide is resolved again")
		})
	}
}

func TestReloadDeckRejectsNil(t *testing.T) {
	h := newHarness(t, testDeck(t, 2, nil, nil))
	assert.ErrorIs(t, ReloadDeck(h.w, nil), ErrNoDeck)
	assert.Equal(t, 1, TakeSnapshot(h.w).DeckVersion)
}

func TestReloadDeckUpdatesFadeTimings(t *testing.T) {
	h := newHarness(t, testDeck(t, 2, nil, nil))
	spec := &deck.Spec{
		Slides: []deck.SlideSpec{{Title: "one"}},
		Timing: deck.TimingSpec{QuietMS: 300, FadeOutMS: 90, FadeInMS: 120},
	}
	d, err := deck.Build(spec)
	require.NoError(t, err)

	require.NoError(t, ReloadDeck(h.w, d))
	assert.Equal(t, 90*time.Millisecond, h.player().FadeOut)
	assert.Equal(t, 120*time.Millisecond, h.player().FadeIn)
}
