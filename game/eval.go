package game

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

var pieceValues = struct {
	pawn, knight, bishop, rook, queen float64
}{1, 3, 3, 5, 9}

// EvaluateMaterial tallies each side's material to a score between -1 and 1,
// positive when White is ahead.
func EvaluateMaterial(pos Position) float64 {
	return normalize(material(pos.Bitboards(White)), material(pos.Bitboards(Black)))
}

func material(bb dragontoothmg.Bitboards) float64 {
	return pieceValues.pawn*float64(bits.OnesCount64(bb.Pawns)) +
		pieceValues.knight*float64(bits.OnesCount64(bb.Knights)) +
		pieceValues.bishop*float64(bits.OnesCount64(bb.Bishops)) +
		pieceValues.rook*float64(bits.OnesCount64(bb.Rooks)) +
		pieceValues.queen*float64(bits.OnesCount64(bb.Queens))
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
