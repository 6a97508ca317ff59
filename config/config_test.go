package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, "For you", s.Window.Title)
	assert.Equal(t, 44100, s.Audio.SampleRate)
	assert.Equal(t, "info", s.Log.Level)
	assert.NoError(t, s.Validate())
}

func TestLoad(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr error
		check   func(t *testing.T, s *Settings)
	}{
		{
			name:    "partial_override_keeps_defaults",
			content: "[audio]\nvolume = 0.5\n[log]\nlevel = \"debug\"\n",
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, 0.5, s.Audio.Volume)
				assert.Equal(t, "debug", s.Log.Level)
				assert.Equal(t, 1280, s.Window.Width)
			},
		},
		{
			name:    "volume_out_of_range",
			content: "[audio]\nvolume = 2.0\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "muted",
			content: "[audio]\nvolume = 0.0\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "not_toml",
			content: "this is = = not toml",
			wantErr: ErrInvalidConfig,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.toml")
			require.NoError(t, os.WriteFile(path, []byte(c.content), 0o644))

			s, err := Load(path)
			if c.wantErr != nil {
				assert.ErrorIs(t, err, c.wantErr)
				return
			}
			require.NoError(t, err)
			c.check(t, s)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	s, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, CreateFile(path))
	assert.Error(t, CreateFile(path))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}
