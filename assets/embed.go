package assets

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed audio
var assetsFS embed.FS

// Loader reads assets by assets-relative path. Files under Dir win over the
// embedded copies so a deck can be tried out with new music without a rebuild.
type Loader struct {
	Dir string
}

// Open returns the bytes for path, checking Dir first.
func (l Loader) Open(path string) ([]byte, error) {
	clean := CleanPath(path)
	if clean == "" {
		return nil, fs.ErrNotExist
	}
	if l.Dir != "" {
		b, err := os.ReadFile(filepath.Join(l.Dir, filepath.FromSlash(clean)))
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return assetsFS.ReadFile(clean)
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	return Loader{}.Open(path)
}

// Embedded lists the embedded audio files.
func Embedded() []string {
	var names []string
	_ = fs.WalkDir(assetsFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	return names
}

// CleanPath turns a deck source ("audio/x.wav", "/assets/audio/x.wav",
// "assets\audio\x.wav") into a slash separated assets-relative path.
func CleanPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	s = strings.ReplaceAll(s, "\\", "/")
	if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
		return s[idx+len("/assets/"):]
	}
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimPrefix(s, "./")
	s = strings.TrimPrefix(s, "assets/")
	return s
}
