package deck

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"time"
)

const (
	DefaultQuietInterval = 220 * time.Millisecond
	DefaultFadeOut       = 180 * time.Millisecond
	DefaultFadeIn        = 250 * time.Millisecond
)

var (
	defaultBackground = color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	defaultForeground = color.NRGBA{R: 0x18, G: 0x18, B: 0x1b, A: 0xff}
)

// Slide is one render-only unit of the presentation.
type Slide struct {
	Index      int
	Title      string
	Subtitle   string
	Background color.Color
	Foreground color.Color
}

type Timing struct {
	QuietInterval time.Duration
	FadeOut       time.Duration
	FadeIn        time.Duration
}

// MusicTable maps slide indices to tracks. It is immutable once built.
type MusicTable struct {
	tracks map[int]Track
}

func NewMusicTable(n int, tracks map[int]Track) (MusicTable, error) {
	copied := make(map[int]Track, len(tracks))
	for idx, tr := range tracks {
		if idx < 1 || idx > n {
			return MusicTable{}, fmt.Errorf("%w: music entry %d not in [1, %d]", ErrIndexOutOfRange, idx, n)
		}
		if err := tr.validate(); err != nil {
			return MusicTable{}, fmt.Errorf("music entry %d: %w", idx, err)
		}
		tr.Source = strings.TrimSpace(tr.Source)
		if tr.Start != nil {
			start := *tr.Start
			tr.Start = &start
		}
		copied[idx] = tr
	}
	return MusicTable{tracks: copied}, nil
}

// Lookup returns the track registered for a slide index.
func (m MusicTable) Lookup(index int) (Track, bool) {
	tr, ok := m.tracks[index]
	return tr, ok
}

// Indices returns the registered slide indices in ascending order.
func (m MusicTable) Indices() []int {
	out := make([]int, 0, len(m.tracks))
	for idx := range m.tracks {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func (m MusicTable) Len() int {
	return len(m.tracks)
}

// Deck is a validated presentation: stage copy, timings, the slide registry
// and the music table.
type Deck struct {
	Title  string
	Gate   GateSpec
	Intro  IntroSpec
	Nope   NopeSpec
	Timing Timing

	slides []Slide
	music  MusicTable
}

// Build validates a spec and freezes it into a Deck.
func Build(spec *Spec) (*Deck, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil spec", ErrInvalidDeck)
	}
	if len(spec.Slides) == 0 {
		return nil, fmt.Errorf("%w: no slides", ErrInvalidDeck)
	}

	slides := make([]Slide, 0, len(spec.Slides))
	for i, s := range spec.Slides {
		slide := Slide{
			Index:      i + 1,
			Title:      s.Title,
			Subtitle:   s.Subtitle,
			Background: defaultBackground,
			Foreground: defaultForeground,
		}
		if s.Background != nil && s.Background.Color != nil {
			slide.Background = s.Background.Color
		}
		if s.Foreground != nil && s.Foreground.Color != nil {
			slide.Foreground = s.Foreground.Color
		}
		slides = append(slides, slide)
	}

	music, err := NewMusicTable(len(slides), spec.Music)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}

	intro := spec.Intro
	if intro.Track != nil {
		if err := intro.Track.validate(); err != nil {
			return nil, fmt.Errorf("%w: intro: %w", ErrInvalidDeck, err)
		}
		tr := *intro.Track
		tr.Source = strings.TrimSpace(tr.Source)
		intro.Track = &tr
	}

	timing, err := buildTiming(spec.Timing)
	if err != nil {
		return nil, err
	}

	return &Deck{
		Title:  spec.Title,
		Gate:   withGateDefaults(spec.Gate),
		Intro:  withIntroDefaults(intro),
		Nope:   spec.Nope,
		Timing: timing,
		slides: slides,
		music:  music,
	}, nil
}

func buildTiming(t TimingSpec) (Timing, error) {
	if t.QuietMS < 0 || t.FadeOutMS < 0 || t.FadeInMS < 0 {
		return Timing{}, fmt.Errorf("%w: negative timing %+v", ErrInvalidDeck, t)
	}
	out := Timing{
		QuietInterval: DefaultQuietInterval,
		FadeOut:       DefaultFadeOut,
		FadeIn:        DefaultFadeIn,
	}
	if t.QuietMS > 0 {
		out.QuietInterval = time.Duration(t.QuietMS) * time.Millisecond
	}
	if t.FadeOutMS > 0 {
		out.FadeOut = time.Duration(t.FadeOutMS) * time.Millisecond
	}
	if t.FadeInMS > 0 {
		out.FadeIn = time.Duration(t.FadeInMS) * time.Millisecond
	}
	return out, nil
}

func withGateDefaults(g GateSpec) GateSpec {
	if g.Confirm == "" {
		g.Confirm = "Yes"
	}
	if g.Decline == "" {
		g.Decline = "No"
	}
	return g
}

func withIntroDefaults(i IntroSpec) IntroSpec {
	if i.Button == "" {
		i.Button = "Start"
	}
	return i
}

// Len returns the number of slides, N.
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.slides)
}

// Slide returns the render unit for a 1-based index.
func (d *Deck) Slide(index int) (Slide, error) {
	if d == nil || index < 1 || index > len(d.slides) {
		return Slide{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return d.slides[index-1], nil
}

func (d *Deck) Music() MusicTable {
	if d == nil {
		return MusicTable{}
	}
	return d.music
}

// Track resolves the music for a slide index.
func (d *Deck) Track(index int) (Track, bool) {
	if d == nil {
		return Track{}, false
	}
	return d.music.Lookup(index)
}

// Sources returns every distinct track source in the deck, intro first.
func (d *Deck) Sources() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(src string) {
		if src == "" || seen[src] {
			return
		}
		seen[src] = true
		out = append(out, src)
	}
	if d.Intro.Track != nil {
		add(strings.TrimSpace(d.Intro.Track.Source))
	}
	for _, idx := range d.music.Indices() {
		tr, _ := d.music.Lookup(idx)
		add(tr.Source)
	}
	return out
}
