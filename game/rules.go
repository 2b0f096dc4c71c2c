package game

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

const (
	// SeventyFiveMoveLimit is the halfmove clock at which the game is drawn automatically.
	SeventyFiveMoveLimit = 150
	// FivefoldLimit is the number of occurrences of a position that draws the game automatically.
	FivefoldLimit = 5
)

const (
	lightSquares uint64 = 0x55AA55AA55AA55AA
	darkSquares         = ^lightSquares
)

// insufficientMaterial covers the dead positions reachable without pawns or heavy
// pieces: bare kings, a single minor piece, or bishops confined to one square colour.
func insufficientMaterial(white, black dragontoothmg.Bitboards) bool {
	if white.Pawns|black.Pawns|white.Rooks|black.Rooks|white.Queens|black.Queens != 0 {
		return false
	}
	knights := white.Knights | black.Knights
	bishops := white.Bishops | black.Bishops
	if bits.OnesCount64(knights)+bits.OnesCount64(bishops) <= 1 {
		return true
	}
	if knights != 0 {
		return false
	}
	return bishops&lightSquares == 0 || bishops&darkSquares == 0
}
