package component

import "github.com/milk9111/valentine/deck"

// MusicRequest is a one-shot request for global music playback.
//
// The music system keeps only one song active. A request for the song that is
// already playing, with no start offset, leaves it alone; anything else fades
// the current song out and the requested one in.
type MusicRequest struct {
	Track deck.Track
	Stop  bool
}

var MusicRequestComponent = NewComponent[MusicRequest]()
