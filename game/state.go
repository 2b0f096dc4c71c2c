package game

import "github.com/dylhunn/dragontoothmg"

// Board is a mutable working position with apply/undo semantics and a history of the
// positions reached since it was created, used for repetition detection.
type Board struct {
	board    dragontoothmg.Board
	castling uint8
	ep       uint8
	history  []uint64
	// moves caches the legal moves of the current position until the next push or undo.
	moves      []Move
	movesReady bool
}

// NewBoard starts a board at pos. The history only contains pos: earlier occurrences
// of a position are not known to a board built from a snapshot.
func NewBoard(pos Position) *Board {
	b := &Board{board: pos.board, castling: pos.castling, ep: pos.ep}
	b.history = append(b.history, b.board.Hash())
	return b
}

// Position returns a snapshot of the current position.
func (b *Board) Position() Position {
	return Position{board: b.board, castling: b.castling, ep: b.ep}
}

func (b *Board) SideToMove() Color {
	if b.board.Wtomove {
		return White
	}
	return Black
}

// LegalMoves enumerates the legal moves in generator order. The slice is shared with
// the board's cache and must not be modified.
func (b *Board) LegalMoves() []Move {
	if !b.movesReady {
		b.moves = b.board.GenerateLegalMoves()
		b.movesReady = true
	}
	return b.moves
}

// Ply returns the number of moves pushed and not undone.
func (b *Board) Ply() int {
	return len(b.history) - 1
}

// Push applies a legal move and returns the closure that undoes it. Undo closures
// must run in reverse order of the pushes that produced them.
func (b *Board) Push(m Move) (undo func()) {
	castling, ep := b.castling, b.ep
	from, to := m.From(), m.To()
	pawns := b.board.Black.Pawns
	if b.board.Wtomove {
		pawns = b.board.White.Pawns
	}
	b.castling &= castlingKept[from] & castlingKept[to]
	b.ep = 0
	if pawns&(1<<from) != 0 && (to-from == 16 || from-to == 16) {
		b.ep = (from+to)/2 + 1
	}

	unapply := b.board.Apply(m)
	b.movesReady = false
	b.history = append(b.history, b.board.Hash())
	depth := len(b.history)
	return func() {
		if len(b.history) != depth {
			panic("undo out of order")
		}
		b.history = b.history[:depth-1]
		unapply()
		b.castling, b.ep = castling, ep
		b.movesReady = false
	}
}

// Explore runs fn with m applied and restores the board on every exit path,
// including a panic inside fn.
func (b *Board) Explore(m Move, fn func()) {
	undo := b.Push(m)
	defer undo()
	fn()
}

// Termination classifies the current position, checking rules in the order
// checkmate, insufficient material, stalemate, seventy-five-move rule, fivefold repetition.
func (b *Board) Termination() Termination {
	noMoves := len(b.LegalMoves()) == 0
	if noMoves && b.board.OurKingInCheck() {
		return Checkmate
	}
	if insufficientMaterial(b.board.White, b.board.Black) {
		return InsufficientMaterial
	}
	if noMoves {
		return Stalemate
	}
	if int(b.board.Halfmoveclock) >= SeventyFiveMoveLimit {
		return SeventyFiveMoves
	}
	if b.repetitions() >= FivefoldLimit {
		return FivefoldRepetition
	}
	return None
}

// IsStalemate reports whether the side to move has no legal move and is not in check.
// It holds even when Termination reports insufficient material for the same position.
func (b *Board) IsStalemate() bool {
	return len(b.LegalMoves()) == 0 && !b.board.OurKingInCheck()
}

func (b *Board) IsGameOver() bool {
	return b.Termination() != None
}

// Winner returns the side that delivered checkmate, or NoColor.
func (b *Board) Winner() Color {
	if b.Termination() == Checkmate {
		return b.SideToMove().Other()
	}
	return NoColor
}

// repetitions counts occurrences of the current position in the history. Positions
// before the last irreversible move cannot repeat, so the scan stops there.
func (b *Board) repetitions() int {
	current := b.history[len(b.history)-1]
	start := len(b.history) - 1 - int(b.board.Halfmoveclock)
	if start < 0 {
		start = 0
	}
	count := 0
	for i := len(b.history) - 1; i >= start; i-- {
		if b.history[i] == current {
			count++
		}
	}
	return count
}
