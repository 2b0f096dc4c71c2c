package game

import (
	"math/bits"
	"strings"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// Position is an immutable snapshot of a chess position. Copies are independent:
// exploring moves on a Board never changes a Position taken from it.
type Position struct {
	board    dragontoothmg.Board
	castling uint8
	// ep is the en passant target square plus one, 0 when there is none.
	ep uint8
}

const (
	castleWK uint8 = 1 << iota
	castleWQ
	castleBK
	castleBQ
)

// castlingKept[sq] masks the rights that survive a move from or to sq.
var castlingKept = func() (kept [64]uint8) {
	for sq := range kept {
		kept[sq] = castleWK | castleWQ | castleBK | castleBQ
	}
	kept[0] &^= castleWQ
	kept[4] &^= castleWK | castleWQ
	kept[7] &^= castleWK
	kept[56] &^= castleBQ
	kept[60] &^= castleBK | castleBQ
	kept[63] &^= castleBK
	return kept
}()

func parseCastling(field string) uint8 {
	var rights uint8
	for _, c := range field {
		switch c {
		case 'K':
			rights |= castleWK
		case 'Q':
			rights |= castleWQ
		case 'k':
			rights |= castleBK
		case 'q':
			rights |= castleBQ
		}
	}
	return rights
}

// parseSquare reads an algebraic square such as e3 (a1 = 0).
func parseSquare(field string) (uint8, bool) {
	if len(field) != 2 {
		return 0, false
	}
	file, rank := field[0], field[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, false
	}
	return (file - 'a') + 8*(rank-'1'), true
}

// ParsePosition decodes a FEN string. Four-field FENs get a zero halfmove clock and
// fullmove number 1.
func ParsePosition(fen string) (Position, error) {
	fields := strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 6:
	default:
		return Position{}, errors.Errorf("invalid FEN %q: expected 4 or 6 fields, got %d", fen, len(fields))
	}
	normalized := strings.Join(fields, " ")

	// dragontoothmg panics on malformed input, so validate with a strict decoder first
	if _, err := chess.FEN(normalized); err != nil {
		return Position{}, errors.Wrapf(err, "invalid FEN %q", fen)
	}
	board := dragontoothmg.ParseFen(normalized)
	if bits.OnesCount64(board.White.Kings) != 1 || bits.OnesCount64(board.Black.Kings) != 1 {
		return Position{}, errors.Errorf("invalid FEN %q: each side needs exactly one king", fen)
	}

	pos := Position{board: board, castling: parseCastling(fields[2])}
	if sq, ok := parseSquare(fields[3]); ok {
		pos.ep = sq + 1
	}
	return pos, nil
}

// MustParsePosition is ParsePosition for known-good FENs.
func MustParsePosition(fen string) Position {
	pos, err := ParsePosition(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

func (p Position) FEN() string {
	return p.board.ToFen()
}

func (p Position) String() string {
	return p.FEN()
}

func (p Position) WhiteToMove() bool {
	return p.board.Wtomove
}

func (p Position) SideToMove() Color {
	if p.board.Wtomove {
		return White
	}
	return Black
}

// Bitboards returns the piece bitboards of one side (bit 0 is a1, bit 63 is h8).
func (p Position) Bitboards(c Color) dragontoothmg.Bitboards {
	if c == White {
		return p.board.White
	}
	return p.board.Black
}

// Key identifies the position for repetition detection.
func (p Position) Key() uint64 {
	return p.board.Hash()
}

func (p Position) HalfmoveClock() int {
	return int(p.board.Halfmoveclock)
}

// CastlingRights reports white kingside, white queenside, black kingside and black
// queenside rights.
func (p Position) CastlingRights() (wk, wq, bk, bq bool) {
	return p.castling&castleWK != 0, p.castling&castleWQ != 0,
		p.castling&castleBK != 0, p.castling&castleBQ != 0
}

// EnPassant reports whether an en passant target square is set.
func (p Position) EnPassant() bool {
	return p.ep != 0
}

// EnPassantSquare returns the en passant target square index (a1 = 0).
func (p Position) EnPassantSquare() (int, bool) {
	return int(p.ep) - 1, p.ep != 0
}

// InCheck reports whether the side to move is in check.
func (p Position) InCheck() bool {
	return p.board.OurKingInCheck()
}

// LegalMoves enumerates legal moves in generator order.
func (p Position) LegalMoves() []Move {
	return p.board.GenerateLegalMoves()
}

// IsStalemate reports whether the side to move has no legal move and is not in check,
// whatever other rule also ends the game.
func (p Position) IsStalemate() bool {
	return !p.board.OurKingInCheck() && len(p.board.GenerateLegalMoves()) == 0
}
