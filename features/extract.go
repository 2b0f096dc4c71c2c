// Package features encodes chess positions into the fixed-length numeric inputs the
// evaluator networks consume.
package features

import (
	"math"
	"math/bits"

	"tdchess/game"

	"github.com/dylhunn/dragontoothmg"
)

// FeatureCount is the length of the hand-engineered feature vector.
const FeatureCount = 143

// Extractor maps a position to a fixed-length vector.
type Extractor interface {
	Size() int
	Encode(pos game.Position) []float64
}

type vectorExtractor struct{}

// NewVectorExtractor returns the hand-engineered positional feature encoder.
func NewVectorExtractor() Extractor { return vectorExtractor{} }

func (vectorExtractor) Size() int                          { return FeatureCount }
func (vectorExtractor) Encode(pos game.Position) []float64 { return Extract(pos) }

type vector struct {
	data []float64
}

func (v *vector) put(values ...float64) {
	v.data = append(v.data, values...)
}

// Extract builds the 143-long positional feature vector. Colour-specific groups are
// laid out white first, then black.
func Extract(pos game.Position) []float64 {
	white := pos.Bitboards(game.White)
	black := pos.Bitboards(game.Black)
	sides := [2]dragontoothmg.Bitboards{white, black}
	occupied := white.All | black.All
	v := &vector{data: make([]float64, 0, FeatureCount)}

	v.put(boolf(pos.WhiteToMove()))
	wk, wq, bk, bq := pos.CastlingRights()
	v.put(boolf(wk), boolf(wq), boolf(bk), boolf(bq))
	v.put(math.Min(float64(pos.HalfmoveClock()), game.SeventyFiveMoveLimit) / game.SeventyFiveMoveLimit)

	for _, side := range sides {
		v.put(count(side.Pawns)/8, count(side.Knights)/2, count(side.Bishops)/2,
			count(side.Rooks)/2, count(side.Queens), count(side.Kings))
	}

	for sq := 0; sq < 64; sq++ {
		v.put(signedPiece(white, black, sq))
	}

	for _, side := range sides {
		for f := 0; f < 8; f++ {
			v.put(count(side.Pawns&fileMask(f)) / 6)
		}
	}

	for _, side := range sides {
		if side.Kings == 0 {
			v.put(0, 0)
			continue
		}
		sq := bits.TrailingZeros64(side.Kings)
		v.put(float64(sq%8)/7, float64(sq/8)/7)
	}

	v.put(boolf(pos.InCheck()))
	v.put(float64(len(pos.LegalMoves())) / 50)

	for _, side := range sides {
		v.put(
			leaperAttacks(side.Knights, side.All, &knightAttacks)/16,
			sliderAttacks(side.Bishops, occupied, side.All, bishopMoves)/26,
			sliderAttacks(side.Rooks, occupied, side.All, rookMoves)/28,
			sliderAttacks(side.Queens, occupied, side.All, queenMoves)/27,
			leaperAttacks(side.Kings, side.All, &kingAttacks)/8,
		)
	}

	for i, side := range sides {
		them := sides[1-i]
		var perRank [6]float64
		for pawns := side.Pawns; pawns != 0; pawns &= pawns - 1 {
			sq := bits.TrailingZeros64(pawns)
			if !isPassed(sq, i == 0, them.Pawns) {
				continue
			}
			rel := sq / 8
			if i == 1 {
				rel = 7 - rel
			}
			if rel >= 1 && rel <= 6 {
				perRank[rel-1]++
			}
		}
		v.put(perRank[:]...)
	}

	for _, side := range sides {
		doubled, isolated := pawnStructure(side.Pawns)
		v.put(doubled/8, isolated/8)
	}

	for _, side := range sides {
		v.put(boolf(bits.OnesCount64(side.Bishops) >= 2))
	}

	for _, side := range sides {
		v.put(count(side.All&centre) / 4)
	}

	v.put(kingShelter(white, true)/6, kingShelter(black, false)/6)
	v.put(phase(white, black))

	allPawns := white.Pawns | black.Pawns
	for _, side := range sides {
		open := 0.0
		for rooks := side.Rooks; rooks != 0; rooks &= rooks - 1 {
			if allPawns&fileMask(bits.TrailingZeros64(rooks)%8) == 0 {
				open++
			}
		}
		v.put(open / 2)
	}
	v.put(count(white.Rooks&rankMask(6))/2, count(black.Rooks&rankMask(1))/2)

	v.put(kingDistance(white.Kings, black.Kings) / 7)
	v.put(boolf(pos.EnPassant()))

	if len(v.data) != FeatureCount {
		panic("feature vector has wrong length")
	}
	return v.data
}

const centre uint64 = 1<<27 | 1<<28 | 1<<35 | 1<<36

var knightAttacks, kingAttacks [64]uint64

func init() {
	knightSteps := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps := [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	for sq := 0; sq < 64; sq++ {
		knightAttacks[sq] = stepTargets(sq, knightSteps)
		kingAttacks[sq] = stepTargets(sq, kingSteps)
	}
}

func stepTargets(sq int, steps [8][2]int) uint64 {
	var targets uint64
	f, r := sq%8, sq/8
	for _, s := range steps {
		nf, nr := f+s[0], r+s[1]
		if nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
			targets |= 1 << uint(nr*8+nf)
		}
	}
	return targets
}

func leaperAttacks(pieces, own uint64, table *[64]uint64) float64 {
	total := 0
	for ; pieces != 0; pieces &= pieces - 1 {
		total += bits.OnesCount64(table[bits.TrailingZeros64(pieces)] &^ own)
	}
	return float64(total)
}

func bishopMoves(sq uint8, occupied uint64) uint64 {
	return dragontoothmg.CalculateBishopMoveBitboard(sq, occupied)
}

func rookMoves(sq uint8, occupied uint64) uint64 {
	return dragontoothmg.CalculateRookMoveBitboard(sq, occupied)
}

func queenMoves(sq uint8, occupied uint64) uint64 {
	return bishopMoves(sq, occupied) | rookMoves(sq, occupied)
}

func sliderAttacks(pieces, occupied, own uint64, moves func(uint8, uint64) uint64) float64 {
	total := 0
	for ; pieces != 0; pieces &= pieces - 1 {
		sq := uint8(bits.TrailingZeros64(pieces))
		total += bits.OnesCount64(moves(sq, occupied) &^ own)
	}
	return float64(total)
}

func isPassed(sq int, white bool, enemyPawns uint64) bool {
	f, r := sq%8, sq/8
	span := fileMask(f) | adjacentFiles(f)
	if white {
		span &= ranksAbove(r)
	} else {
		span &= ranksBelow(r)
	}
	return enemyPawns&span == 0
}

func pawnStructure(pawns uint64) (doubled, isolated float64) {
	for f := 0; f < 8; f++ {
		n := bits.OnesCount64(pawns & fileMask(f))
		if n > 1 {
			doubled += float64(n - 1)
		}
		if n > 0 && pawns&adjacentFiles(f) == 0 {
			isolated += float64(n)
		}
	}
	return doubled, isolated
}

// kingShelter counts own pawns on the king's and adjacent files within two ranks in front of it.
func kingShelter(side dragontoothmg.Bitboards, white bool) float64 {
	if side.Kings == 0 {
		return 0
	}
	sq := bits.TrailingZeros64(side.Kings)
	f, r := sq%8, sq/8
	var front uint64
	for d := 1; d <= 2; d++ {
		nr := r + d
		if !white {
			nr = r - d
		}
		if nr >= 0 && nr < 8 {
			front |= rankMask(nr)
		}
	}
	return count(side.Pawns & front & (fileMask(f) | adjacentFiles(f)))
}

func phase(white, black dragontoothmg.Bitboards) float64 {
	p := 0
	for _, side := range [2]dragontoothmg.Bitboards{white, black} {
		p += bits.OnesCount64(side.Knights) + bits.OnesCount64(side.Bishops) +
			2*bits.OnesCount64(side.Rooks) + 4*bits.OnesCount64(side.Queens)
	}
	return math.Min(float64(p), 24) / 24
}

func kingDistance(a, b uint64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	sa, sb := bits.TrailingZeros64(a), bits.TrailingZeros64(b)
	df := math.Abs(float64(sa%8 - sb%8))
	dr := math.Abs(float64(sa/8 - sb/8))
	return math.Max(df, dr)
}

func signedPiece(white, black dragontoothmg.Bitboards, sq int) float64 {
	if v := pieceValue(white, sq); v != 0 {
		return v / 6
	}
	return -pieceValue(black, sq) / 6
}

// pieceValue returns 1..6 for pawn..king on sq, 0 for an empty square.
func pieceValue(side dragontoothmg.Bitboards, sq int) float64 {
	bit := uint64(1) << uint(sq)
	switch {
	case side.Pawns&bit != 0:
		return 1
	case side.Knights&bit != 0:
		return 2
	case side.Bishops&bit != 0:
		return 3
	case side.Rooks&bit != 0:
		return 4
	case side.Queens&bit != 0:
		return 5
	case side.Kings&bit != 0:
		return 6
	}
	return 0
}

func fileMask(f int) uint64 {
	return 0x0101010101010101 << uint(f)
}

func rankMask(r int) uint64 {
	return 0xFF << uint(8*r)
}

func adjacentFiles(f int) uint64 {
	var m uint64
	if f > 0 {
		m |= fileMask(f - 1)
	}
	if f < 7 {
		m |= fileMask(f + 1)
	}
	return m
}

func ranksAbove(r int) uint64 {
	if r >= 7 {
		return 0
	}
	return ^(uint64(1)<<uint(8*(r+1)) - 1)
}

func ranksBelow(r int) uint64 {
	if r <= 0 {
		return 0
	}
	return uint64(1)<<uint(8*r) - 1
}

func count(bb uint64) float64 {
	return float64(bits.OnesCount64(bb))
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
