package system

import (
	"math/rand"
	"testing"
	"time"

	"github.com/milk9111/valentine/common"
	"github.com/milk9111/valentine/ecs"
	"github.com/milk9111/valentine/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quiet = 220 * time.Millisecond

func TestGestureBurstMovesOnce(t *testing.T) {
	h := newHarness(t, testDeck(t, 19, nil, nil))
	h.enterSlides()
	require.Equal(t, 1, h.index())

	// Three scroll-down events 10ms apart are one gesture.
	h.wheel(120)
	h.clock.Advance(10 * time.Millisecond)
	h.wheel(120)
	h.clock.Advance(10 * time.Millisecond)
	h.wheel(120)
	assert.Equal(t, 2, h.index())
	assert.True(t, h.gesture().Locked)
	assert.Equal(t, 2, h.gesture().Absorbed)

	// Quiet interval after the last event re-arms the debouncer.
	h.clock.Advance(quiet)
	h.wheel(120)
	assert.Equal(t, 3, h.index())
}

func TestGestureGapJustUnderQuietIntervalExtendsLock(t *testing.T) {
	h := newHarness(t, testDeck(t, 19, nil, nil))
	h.enterSlides()

	h.wheel(1)
	for i := 0; i < 5; i++ {
		h.clock.Advance(quiet - time.Millisecond)
		h.wheel(1)
	}
	assert.Equal(t, 2, h.index(), "a trickle of events never unlocks")

	h.step(quiet)
	assert.False(t, h.gesture().Locked)
}

func TestGestureFirstEventDecidesDirection(t *testing.T) {
	h := newHarness(t, testDeck(t, 5, nil, nil))
	h.enterSlides()
	h.wheel(1)
	h.step(quiet)
	h.wheel(1)
	require.Equal(t, 3, h.index())
	h.step(quiet)

	h.wheel(-3)
	h.clock.Advance(5 * time.Millisecond)
	h.wheel(50)
	h.clock.Advance(5 * time.Millisecond)
	h.wheel(50)
	assert.Equal(t, 2, h.index())
}

func TestGestureClampsAtEdges(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		moves []float64
		want  int
	}{
		{"retreat_on_first", 19, []float64{-1}, 1},
		{"advance_on_last", 3, []float64{1, 1, 1, 1}, 3},
		{"single_slide", 1, []float64{1, -1, 1}, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newHarness(t, testDeck(t, c.n, nil, nil))
			h.enterSlides()
			for _, m := range c.moves {
				h.wheel(m)
				assert.True(t, h.gesture().Locked, "clamped no-op still locks")
				h.step(quiet)
			}
			assert.Equal(t, c.want, h.index())
		})
	}
}

func TestGestureZeroDeltaIgnored(t *testing.T) {
	h := newHarness(t, testDeck(t, 4, nil, nil))
	h.enterSlides()
	h.wheel(0)
	assert.False(t, h.gesture().Locked)
	assert.Equal(t, 1, h.index())
}

func TestGestureBurstsProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(14))

	for round := 0; round < 50; round++ {
		n := 1 + rng.Intn(19)
		h := newHarness(t, testDeck(t, n, nil, nil))
		h.enterSlides()

		want := 1
		bursts := 1 + rng.Intn(30)
		for b := 0; b < bursts; b++ {
			size := 1 + rng.Intn(6)
			dir := 1.0
			if rng.Intn(3) == 0 {
				dir = -1
			}
			want = common.Clamp(want+int(dir), 1, n)
			for e := 0; e < size; e++ {
				delta := dir
				if e > 0 && rng.Intn(2) == 0 {
					delta = -dir
				}
				h.wheel(delta * float64(1+rng.Intn(100)))
				h.clock.Advance(time.Duration(rng.Int63n(int64(quiet))))
				require.GreaterOrEqual(t, h.index(), 1)
				require.LessOrEqual(t, h.index(), n)
			}
			h.step(quiet)
		}
		require.Equal(t, want, h.index(), "round %d n=%d", round, n)
		require.Equal(t, bursts, h.gesture().Bursts, "round %d", round)
		require.LessOrEqual(t, h.gesture().Moves, bursts)
	}
}

func TestGestureIgnoredOutsideSlides(t *testing.T) {
	h := newHarness(t, testDeck(t, 5, nil, nil))

	h.wheel(1)
	assert.Equal(t, 1, h.index())
	assert.False(t, h.gesture().Locked)
	assert.Zero(t, ecs.Count(h.w, component.WheelEventComponent.Kind()), "events are consumed even when detached")

	h.press(component.ActionConfirm)
	h.wheel(1)
	assert.Equal(t, 1, h.index())
	assert.False(t, h.gesture().Locked)
}

func TestDetachGestureCancelsUnlock(t *testing.T) {
	h := newHarness(t, testDeck(t, 5, nil, nil))
	h.enterSlides()
	h.wheel(1)
	g := h.gesture()
	require.True(t, g.Locked)
	task := g.Unlock
	require.True(t, task.Pending())

	PushWheel(h.w, 1, component.InputWheel)
	DetachGesture(h.w)

	assert.False(t, g.Locked)
	assert.False(t, g.Attached)
	assert.Nil(t, g.Unlock)
	assert.False(t, task.Pending())
	assert.Zero(t, ecs.Count(h.w, component.WheelEventComponent.Kind()))

	h.step(quiet)
	assert.Equal(t, 2, h.index())
}
