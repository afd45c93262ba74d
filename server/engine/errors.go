package engine

import "errors"

var (
	// ErrEmptyDeck means a deal was attempted with no cards left. A hand uses
	// at most 9 cards, so this is a programming error.
	ErrEmptyDeck     = errors.New("deal from empty deck")
	ErrInvalidAction = errors.New("invalid action")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrHandOver      = errors.New("hand is over")
	ErrHandInPlay    = errors.New("hand in progress")
	ErrGameOver      = errors.New("game over")
)
