// Package game holds the shared immutable configuration, the mutable
// GameState, and the turn/action vocabulary of spec.md sec 3.
package game

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/tech"
)

// Config bundles the immutable objects every GameState in a search tree
// shares by reference: the map(s) each board plays on and the techline.
// It is constructed once by the search root and never mutated, matching
// spec.md sec 9 ("Shared immutable configuration").
type Config struct {
	Maps      []*board.Map
	Techline  *tech.Techline
	NumBoards int
}

// NewDefaultConfig builds an n-board config, each board sharing the same
// default map, and the default techline.
func NewDefaultConfig(numBoards int) *Config {
	m := board.NewDefaultMap()
	maps := make([]*board.Map, numBoards)
	for i := range maps {
		maps[i] = m
	}
	return &Config{
		Maps:      maps,
		Techline:  tech.NewDefault(),
		NumBoards: numBoards,
	}
}

// WinTarget implements w(n) = n - floor(n/4) from spec.md sec 4.1.
func WinTarget(n int) int {
	return n - n/4
}
