package deck

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidDeck     = errors.New("deck: invalid deck")
	ErrIndexOutOfRange = errors.New("deck: slide index out of range")
	ErrInvalidTrack    = errors.New("deck: invalid track")
)

// Track describes the music associated with a slide or stage.
// A nil Start means "no explicit offset": the sequencer may keep an already
// playing copy of the same source running.
type Track struct {
	Source string   `yaml:"source"`
	Start  *float64 `yaml:"start,omitempty"`
	Loop   bool     `yaml:"loop"`
}

// HasStart reports whether an explicit start offset was requested.
func (t Track) HasStart() bool {
	return t.Start != nil
}

// Offset returns the start offset in seconds, or 0.
func (t Track) Offset() float64 {
	if t.Start == nil {
		return 0
	}
	return *t.Start
}

func (t Track) validate() error {
	if strings.TrimSpace(t.Source) == "" {
		return fmt.Errorf("%w: empty source", ErrInvalidTrack)
	}
	if t.Start != nil && *t.Start < 0 {
		return fmt.Errorf("%w: negative start %.2f for %q", ErrInvalidTrack, *t.Start, t.Source)
	}
	return nil
}

type GateSpec struct {
	Question string `yaml:"question"`
	Confirm  string `yaml:"confirm"`
	Decline  string `yaml:"decline"`
}

type IntroSpec struct {
	Text   string `yaml:"text"`
	Button string `yaml:"button"`
	Track  *Track `yaml:"track"`
}

type NopeSpec struct {
	Text string `yaml:"text"`
}

type TimingSpec struct {
	QuietMS   int `yaml:"quiet_ms"`
	FadeOutMS int `yaml:"fade_out_ms"`
	FadeInMS  int `yaml:"fade_in_ms"`
}

type SlideSpec struct {
	Title      string     `yaml:"title"`
	Subtitle   string     `yaml:"subtitle"`
	Background *YAMLColor `yaml:"background"`
	Foreground *YAMLColor `yaml:"foreground"`
}

// Spec is the raw deck file.
type Spec struct {
	Title  string        `yaml:"title"`
	Gate   GateSpec      `yaml:"gate"`
	Intro  IntroSpec     `yaml:"intro"`
	Nope   NopeSpec      `yaml:"nope"`
	Timing TimingSpec    `yaml:"timing"`
	Slides []SlideSpec   `yaml:"slides"`
	Music  map[int]Track `yaml:"music"`
}

func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("deck: unmarshal: %w", err)
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// ParseColor parses #rrggbb or #rrggbbaa.
func ParseColor(value string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return color.NRGBA{}, err
	}
	g, err := parse(2)
	if err != nil {
		return color.NRGBA{}, err
	}
	b, err := parse(4)
	if err != nil {
		return color.NRGBA{}, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.NRGBA{}, err
		}
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
