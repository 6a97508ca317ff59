package sound

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var ErrInvalidWAV = errors.New("sound: not a valid wav file")

// Info describes a track file as stored, before any resampling.
type Info struct {
	Format     Format
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
	// Peak is the loudest sample scaled to [0, 1]. Only known for wav.
	Peak float64
}

func (i Info) String() string {
	if i.Format != FormatWAV {
		return i.Format.String()
	}
	return fmt.Sprintf("wav %d Hz, %d ch, %d-bit, %.2fs, peak %.2f",
		i.SampleRate, i.Channels, i.BitDepth, i.Duration.Seconds(), i.Peak)
}

// Silent reports a wav whose samples are all zero.
func (i Info) Silent() bool {
	return i.Format == FormatWAV && i.Peak == 0
}

// Inspect reads header details of a track. Formats other than wav only
// report their format.
func Inspect(src string, b []byte) (Info, error) {
	format := FormatOf(src)
	if format == FormatUnknown {
		return Info{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, src)
	}
	if format != FormatWAV {
		return Info{Format: format}, nil
	}

	dec := wav.NewDecoder(bytes.NewReader(b))
	if !dec.IsValidFile() {
		return Info{}, fmt.Errorf("%w: %q", ErrInvalidWAV, src)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Info{}, fmt.Errorf("inspect %q: %w", src, err)
	}
	info := Info{
		Format:     format,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	if info.SampleRate > 0 && info.Channels > 0 {
		frames := len(buf.Data) / info.Channels
		info.Duration = time.Duration(frames) * time.Second / time.Duration(info.SampleRate)
	}
	info.Peak = peak(buf)
	return info, nil
}

func peak(buf *audio.IntBuffer) float64 {
	if buf == nil || buf.SourceBitDepth <= 0 {
		return 0
	}
	loudest := 0
	for _, v := range buf.Data {
		if v < 0 {
			v = -v
		}
		if v > loudest {
			loudest = v
		}
	}
	full := float64(int(1) << (buf.SourceBitDepth - 1))
	return math.Min(float64(loudest)/full, 1)
}
