package sound

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

var ErrUnsupportedFormat = errors.New("sound: unsupported audio format")

// bytesPerFrame is 16-bit little endian stereo, the format every decoder
// below produces.
const bytesPerFrame = 4

type Format int

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatMP3
	FormatOgg
)

func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatMP3:
		return "mp3"
	case FormatOgg:
		return "ogg"
	default:
		return "unknown"
	}
}

// FormatOf picks a decoder from the file extension.
func FormatOf(src string) Format {
	switch strings.ToLower(path.Ext(strings.TrimSpace(src))) {
	case ".wav":
		return FormatWAV
	case ".mp3":
		return FormatMP3
	case ".ogg", ".oga":
		return FormatOgg
	default:
		return FormatUnknown
	}
}

// Clip is a fully decoded track.
type Clip struct {
	Source     string
	PCM        []byte
	SampleRate int
}

func (c *Clip) Duration() time.Duration {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	frames := int64(len(c.PCM) / bytesPerFrame)
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// Library decodes tracks on first use and keeps the PCM around, so switching
// back to a song does not decode it again.
type Library struct {
	sampleRate int
	open       func(string) ([]byte, error)

	mu    sync.Mutex
	clips map[string]*Clip
}

func NewLibrary(sampleRate int, open func(string) ([]byte, error)) *Library {
	return &Library{
		sampleRate: sampleRate,
		open:       open,
		clips:      make(map[string]*Clip),
	}
}

func (l *Library) SampleRate() int { return l.sampleRate }

// Clip returns the decoded track for src.
func (l *Library) Clip(src string) (*Clip, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if c, ok := l.clips[src]; ok {
		return c, nil
	}

	format := FormatOf(src)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, src)
	}
	if l.open == nil {
		return nil, fmt.Errorf("sound: no loader for %q", src)
	}
	b, err := l.open(src)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", src, err)
	}
	pcm, err := decode(format, l.sampleRate, b)
	if err != nil {
		return nil, fmt.Errorf("decode %s %q: %w", format, src, err)
	}

	c := &Clip{Source: src, PCM: pcm, SampleRate: l.sampleRate}
	l.clips[src] = c
	return c, nil
}

// Preload decodes every source up front. Failures are joined.
func (l *Library) Preload(sources []string) error {
	var errs []error
	for _, src := range sources {
		if _, err := l.Clip(src); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clips)
}

func decode(format Format, sampleRate int, b []byte) ([]byte, error) {
	r := bytes.NewReader(b)
	var (
		stream io.Reader
		err    error
	)
	switch format {
	case FormatWAV:
		stream, err = wav.DecodeWithSampleRate(sampleRate, r)
	case FormatMP3:
		stream, err = mp3.DecodeWithSampleRate(sampleRate, r)
	case FormatOgg:
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return io.ReadAll(stream)
}
