package component

// SlideCursor is the current slide index, always within [1, Count].
// MusicIndex remembers which slide last had its track resolved so the music
// lookup runs once per index change.
type SlideCursor struct {
	Index      int
	Count      int
	MusicIndex int
}

var SlideCursorComponent = NewComponent[SlideCursor]()
