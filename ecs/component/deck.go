package component

import "github.com/milk9111/valentine/deck"

// DeckRef points at the loaded deck. Version increments on every reload.
type DeckRef struct {
	Deck    *deck.Deck
	Version int
}

var DeckComponent = NewComponent[DeckRef]()
