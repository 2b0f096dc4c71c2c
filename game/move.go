package game

import (
	"github.com/dylhunn/dragontoothmg"
	"github.com/pkg/errors"
)

// Move is a legal transition between two positions, packed by the move generator.
type Move = dragontoothmg.Move

// MoveString renders a move in UCI notation (e2e4, e7e8q).
func MoveString(m Move) string {
	return m.String()
}

// ParseMove finds the legal move of pos matching a UCI string.
func ParseMove(pos Position, uci string) (Move, error) {
	for _, m := range pos.LegalMoves() {
		if m.String() == uci {
			return m, nil
		}
	}
	return 0, errors.Errorf("move %s is not legal in %s", uci, pos.FEN())
}
