package engine

import (
	"time"

	"tdchess/game"
	"tdchess/meta"
	"tdchess/searcher/agent"

	"github.com/rs/zerolog/log"
)

type LocalEngine struct {
	board    *game.Board
	white    agent.Agent
	black    agent.Agent
	maxPlies int
}

// NewLocalEngine sets up a game between two agents from seed. maxPlies <= 0 uses the
// default cap.
func NewLocalEngine(seed game.Position, white, black agent.Agent, maxPlies int) *LocalEngine {
	if white == nil || black == nil {
		panic("need two agents")
	}
	if maxPlies <= 0 {
		maxPlies = meta.MAX_PLIES
	}
	return &LocalEngine{
		board:    game.NewBoard(seed),
		white:    white,
		black:    black,
		maxPlies: maxPlies,
	}
}

// Run executes the entire game loop until the game is over.
func (e *LocalEngine) Run() GameResult {
	start := time.Now()
	plies := 0
	term := e.board.Termination()
	for term == game.None && plies < e.maxPlies {
		current := e.white
		if e.board.SideToMove() == game.Black {
			current = e.black
		}
		move, _ := current.FindMove(e.board)
		e.board.Push(move)
		plies++
		term = e.board.Termination()
	}
	if term == game.None {
		log.Debug().Msgf("stopped after %d plies without a result", plies)
	}

	return GameResult{
		Winner:      e.board.Winner(),
		Termination: term,
		Plies:       plies,
		Final:       e.board.Position(),
		StartTime:   start,
		Duration:    time.Since(start),
	}
}

// Play runs one game between white and black from seed.
func Play(white, black agent.Agent, seed game.Position) GameResult {
	return NewLocalEngine(seed, white, black, 0).Run()
}
