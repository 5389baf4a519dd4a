package main

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/notnil/chess"
)

var errNoLegalMove = errors.New("no legal move available")

// randSource is the entropy the selector consumes. *rand.Rand satisfies it;
// tests substitute a seeded or silent source.
type randSource interface {
	Intn(n int) int
	Float64() float64
}

// selectMove picks one legal move at the given strength. easy ignores the
// board entirely; amateur and pro trial every move on a scratch position and
// keep the greatest material score plus a noise term scaled by the level.
// Strict greater-than keeps the first move in the engine's order on ties.
func selectMove(rnd randSource, pos *chess.Position, d difficulty) (*chess.Move, error) {
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return nil, errNoLegalMove
	}
	if d == easy {
		return moves[rnd.Intn(len(moves))], nil
	}
	noise := levels[d].Noise
	best := moves[0]
	bestScore := math.Inf(-1)
	for _, move := range moves {
		score := evaluate(pos.Update(move)) + rnd.Float64()*noise
		if score > bestScore {
			best = move
			bestScore = score
		}
	}
	return best, nil
}

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// chooseMove is selectMove over the server's shared random source.
func chooseMove(pos *chess.Position, d difficulty) (*chess.Move, error) {
	rngMu.Lock()
	defer rngMu.Unlock()
	return selectMove(rng, pos, d)
}
