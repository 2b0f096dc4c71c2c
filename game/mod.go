package game

// Termination describes why a game is over. None means the game is still in progress.
type Termination int

const (
	None Termination = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	SeventyFiveMoves
	FivefoldRepetition
)

func (t Termination) String() string {
	switch t {
	case None:
		return "none"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient_material"
	case SeventyFiveMoves:
		return "seventy_five_moves"
	case FivefoldRepetition:
		return "fivefold_repetition"
	}
	return "unknown"
}

// IsDrawByRule reports whether the termination is one of the drawing rules whose
// final score is forced to 0 during training. Insufficient material is not one of them.
func (t Termination) IsDrawByRule() bool {
	return t == FivefoldRepetition || t == SeventyFiveMoves || t == Stalemate
}

// Color is the side to move or the winner of a game.
type Color int

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// Sign is +1 for White and -1 for Black: the maximizing side is White.
func (c Color) Sign() float64 {
	switch c {
	case White:
		return 1
	case Black:
		return -1
	}
	return 0
}
