package deck

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultName = "deck.yaml"

//go:embed deck.yaml
var DeckFS embed.FS

// Load reads a deck file. Relative names are looked up on disk first and fall
// back to the embedded copy, so an edited deck next to the binary wins.
func Load(name string) ([]byte, error) {
	if name == "" {
		name = DefaultName
	}
	if data, err := os.ReadFile(diskDeckPath(name)); err == nil {
		return data, nil
	}
	return DeckFS.ReadFile(cleanDeckPath(name))
}

// LoadDeck reads, parses and validates a deck.
func LoadDeck(name string) (*Deck, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("deck: load %s: %w", name, err)
	}
	return Parse(data)
}

// Parse parses and validates deck YAML.
func Parse(data []byte) (*Deck, error) {
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, err
	}
	return Build(spec)
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskDeckPath(name))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanDeckPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "deck/"); ok {
		return after
	}
	return filepath.Base(s)
}

func diskDeckPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.FromSlash(name)
}
