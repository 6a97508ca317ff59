package deck

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDeck(t *testing.T) {
	d, err := LoadDeck("")
	require.NoError(t, err)

	assert.Equal(t, 19, d.Len())
	assert.Equal(t, 220*time.Millisecond, d.Timing.QuietInterval)
	assert.Equal(t, 180*time.Millisecond, d.Timing.FadeOut)
	assert.Equal(t, 250*time.Millisecond, d.Timing.FadeIn)

	require.NotNil(t, d.Intro.Track)
	assert.True(t, d.Intro.Track.HasStart())
	assert.True(t, d.Intro.Track.Loop)

	first, ok := d.Track(1)
	require.True(t, ok)
	assert.Equal(t, d.Intro.Track.Source, first.Source, "intro and first slide share a song")
	assert.False(t, first.HasStart())

	_, ok = d.Track(2)
	assert.False(t, ok, "slide 2 keeps the current song")

	for i := 1; i <= d.Len(); i++ {
		s, err := d.Slide(i)
		require.NoError(t, err)
		assert.Equal(t, i, s.Index)
		assert.NotEmpty(t, s.Title)
	}
}

func TestBuildValidation(t *testing.T) {
	start := func(v float64) *float64 { return &v }
	oneSlide := []SlideSpec{{Title: "a"}}

	cases := []struct {
		name string
		spec *Spec
		want error
	}{
		{"nil", nil, ErrInvalidDeck},
		{"no_slides", &Spec{}, ErrInvalidDeck},
		{"music_index_zero", &Spec{Slides: oneSlide, Music: map[int]Track{0: {Source: "a.wav"}}}, ErrIndexOutOfRange},
		{"music_index_past_end", &Spec{Slides: oneSlide, Music: map[int]Track{2: {Source: "a.wav"}}}, ErrIndexOutOfRange},
		{"music_empty_source", &Spec{Slides: oneSlide, Music: map[int]Track{1: {Source: "  "}}}, ErrInvalidTrack},
		{"music_negative_start", &Spec{Slides: oneSlide, Music: map[int]Track{1: {Source: "a.wav", Start: start(-1)}}}, ErrInvalidTrack},
		{"intro_empty_source", &Spec{Slides: oneSlide, Intro: IntroSpec{Track: &Track{}}}, ErrInvalidTrack},
		{"negative_timing", &Spec{Slides: oneSlide, Timing: TimingSpec{QuietMS: -1}}, ErrInvalidDeck},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Build(c.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, c.want), "got %v, want %v", err, c.want)
		})
	}
}

func TestSlideOutOfRange(t *testing.T) {
	d, err := Build(&Spec{Slides: []SlideSpec{{Title: "only"}}})
	require.NoError(t, err)

	for _, idx := range []int{0, 2, -5} {
		_, err := d.Slide(idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}
}

func TestParseColors(t *testing.T) {
	d, err := Parse([]byte(`
slides:
  - title: a
    background: "#112233"
    foreground: "#44556677"
  - title: b
`))
	require.NoError(t, err)

	a, _ := d.Slide(1)
	assert.Equal(t, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff}, a.Background)
	assert.Equal(t, color.NRGBA{R: 0x44, G: 0x55, B: 0x66, A: 0x77}, a.Foreground)

	b, _ := d.Slide(2)
	assert.Equal(t, defaultBackground, b.Background)

	_, err = Parse([]byte("slides:\n  - title: x\n    background: \"#12\"\n"))
	assert.Error(t, err)
}

func TestMusicTableIsCopied(t *testing.T) {
	v := 3.0
	src := map[int]Track{1: {Source: " a.wav ", Start: &v}}
	table, err := NewMusicTable(1, src)
	require.NoError(t, err)

	v = 9
	delete(src, 1)

	tr, ok := table.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "a.wav", tr.Source)
	assert.Equal(t, 3.0, tr.Offset())
	assert.Equal(t, []int{1}, table.Indices())
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slides:\n  - title: disk\n"), 0o644))

	d, err := LoadDeck(path)
	require.NoError(t, err)
	require.Equal(t, 1, d.Len())
	s, _ := d.Slide(1)
	assert.Equal(t, "disk", s.Title)

	_, err = LoadDeck(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestWatcherReportsDeckWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slides: []\n"), 0o644))

	w, err := WatchFile(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("slides:\n  - title: x\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "deck.yaml", filepath.Base(name))
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no watch event")
	}
}

func TestSources(t *testing.T) {
	d, err := LoadDeck("")
	require.NoError(t, err)
	assert.Equal(t, []string{"audio/theme.wav", "audio/waltz.wav", "audio/night.wav"}, d.Sources())
}
