package features

import "tdchess/game"

const (
	PlaneCount = 4
	PlaneSize  = 64
	// PlaneInputs is the length of the plane encoding.
	PlaneInputs = PlaneCount * PlaneSize
)

type planeExtractor struct{}

// NewPlaneExtractor returns the board-plane encoder used by convolutional evaluators.
func NewPlaneExtractor() Extractor { return planeExtractor{} }

func (planeExtractor) Size() int                          { return PlaneInputs }
func (planeExtractor) Encode(pos game.Position) []float64 { return Planes(pos) }

// Planes encodes pos as four 8x8 planes, plane-major with a1 first:
//
//	0: white pieces, pawn..king as 1/6..6/6
//	1: black pieces, same scale
//	2: side to move, +1 everywhere for White and -1 for Black
//	3: rooks that still carry a castling right, and the en passant target square
func Planes(pos game.Position) []float64 {
	out := make([]float64, PlaneInputs)
	white := pos.Bitboards(game.White)
	black := pos.Bitboards(game.Black)

	for sq := 0; sq < 64; sq++ {
		out[sq] = pieceValue(white, sq) / 6
		out[PlaneSize+sq] = pieceValue(black, sq) / 6
	}

	stm := -1.0
	if pos.WhiteToMove() {
		stm = 1
	}
	for sq := 0; sq < 64; sq++ {
		out[2*PlaneSize+sq] = stm
	}

	special := out[3*PlaneSize:]
	wk, wq, bk, bq := pos.CastlingRights()
	for _, c := range []struct {
		right bool
		sq    int
	}{{wk, 7}, {wq, 0}, {bk, 63}, {bq, 56}} {
		if c.right {
			special[c.sq] = 1
		}
	}
	if sq, ok := pos.EnPassantSquare(); ok {
		special[sq] = 1
	}
	return out
}
