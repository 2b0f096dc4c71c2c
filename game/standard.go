package game

import "github.com/dylhunn/dragontoothmg"

// StartFEN is the standard chess starting position.
const StartFEN = dragontoothmg.Startpos

func StartPosition() Position {
	return MustParsePosition(StartFEN)
}

// NewStandardBoard returns a board at the starting position with an empty history.
func NewStandardBoard() *Board {
	return NewBoard(StartPosition())
}
