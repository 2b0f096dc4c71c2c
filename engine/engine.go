package engine

import (
	"time"

	"tdchess/game"
)

type Engine interface {
	// Run plays a game until it is over or a max number of plies is reached
	Run() GameResult
}

// GameResult describes a finished game. A game stopped at the ply cap has Termination
// None and no winner.
type GameResult struct {
	Winner      game.Color
	Termination game.Termination
	Plies       int
	Final       game.Position
	StartTime   time.Time
	Duration    time.Duration
}
