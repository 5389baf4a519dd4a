package main

import (
	"math/rand"

	"github.com/notnil/chess"
	. "gopkg.in/check.v1"
)

// Board fixtures. hangingQueenFEN leaves the black queen en prise to the e4
// pawn, a nine pawn swing no noise band can drown out. matedFEN is the fool's
// mate final position, White to move with nothing legal. promotionFEN has the
// a7 pawn one step from promoting.
const (
	hangingQueenFEN = "k7/8/8/3q4/4P3/8/8/K7 w - - 0 1"
	matedFEN        = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	stalemateFEN    = "k7/8/KQ6/8/8/8/8/8 b - - 0 1"
	mateInOneFEN    = "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 4 4"
	promotionFEN    = "7k/P7/8/8/8/8/8/K7 w - - 0 1"
)

type zeroRand struct{}

func (zeroRand) Intn(n int) int { return 0 }

func (zeroRand) Float64() float64 { return 0 }

type EngineSuite struct{}

var _ = Suite(&EngineSuite{})

func (s *EngineSuite) position(c *C, fen string) *chess.Position {
	g, err := loadGame(fen)
	c.Assert(err, IsNil)
	return g.Position()
}

func (s *EngineSuite) TestEvaluateStart(c *C) {
	c.Assert(evaluate(chess.StartingPosition()), Equals, 0.0)
}

func (s *EngineSuite) TestEvaluateMaterial(c *C) {
	c.Assert(evaluate(s.position(c, hangingQueenFEN)), Equals, -8.0)
	c.Assert(evaluate(s.position(c, stalemateFEN)), Equals, 9.0)
	c.Assert(evaluate(s.position(c, promotionFEN)), Equals, 1.0)
}

func (s *EngineSuite) TestEvaluateDeterministic(c *C) {
	pos := s.position(c, mateInOneFEN)
	c.Assert(evaluate(pos), Equals, evaluate(pos))
}

func (s *EngineSuite) TestSelectLegal(c *C) {
	pos := chess.StartingPosition()
	legal := make(map[string]bool)
	for _, move := range pos.ValidMoves() {
		legal[move.String()] = true
	}
	for d := range levels {
		move, err := selectMove(rand.New(rand.NewSource(1)), pos, d)
		c.Assert(err, IsNil)
		c.Assert(legal[move.String()], Equals, true)
	}
}

func (s *EngineSuite) TestSelectDeterministic(c *C) {
	pos := chess.StartingPosition()
	for d := range levels {
		first, err := selectMove(rand.New(rand.NewSource(42)), pos, d)
		c.Assert(err, IsNil)
		second, err := selectMove(rand.New(rand.NewSource(42)), pos, d)
		c.Assert(err, IsNil)
		c.Assert(first.String(), Equals, second.String())
	}
}

func (s *EngineSuite) TestSelectTieBreak(c *C) {
	// Every opening move leaves material level, so with silent noise the
	// first move in the engine's order must win.
	pos := chess.StartingPosition()
	expected := pos.ValidMoves()[0].String()
	for d := range levels {
		move, err := selectMove(zeroRand{}, pos, d)
		c.Assert(err, IsNil)
		c.Assert(move.String(), Equals, expected)
	}
}

func (s *EngineSuite) TestSelectGreedyCapture(c *C) {
	pos := s.position(c, hangingQueenFEN)
	for seed := int64(0); seed < 10; seed++ {
		move, err := selectMove(rand.New(rand.NewSource(seed)), pos, amateur)
		c.Assert(err, IsNil)
		c.Assert(move.String(), Equals, "e4d5")
		move, err = selectMove(rand.New(rand.NewSource(seed)), pos, pro)
		c.Assert(err, IsNil)
		c.Assert(move.String(), Equals, "e4d5")
	}
}

func (s *EngineSuite) TestSelectDoesNotMutate(c *C) {
	g, err := loadGame(hangingQueenFEN)
	c.Assert(err, IsNil)
	_, err = selectMove(rand.New(rand.NewSource(3)), g.Position(), pro)
	c.Assert(err, IsNil)
	c.Assert(g.Position().String(), Equals, hangingQueenFEN)
}

func (s *EngineSuite) TestSelectNoLegalMove(c *C) {
	for d := range levels {
		move, err := selectMove(zeroRand{}, s.position(c, matedFEN), d)
		c.Assert(err, Equals, errNoLegalMove)
		c.Assert(move, IsNil)
	}
}

func (s *EngineSuite) TestLevels(c *C) {
	c.Assert(levels, HasLen, 3)
	c.Assert(levels[easy].Noise, Equals, 0.0)
	c.Assert(levels[amateur].Noise, Equals, 2.0)
	c.Assert(levels[pro].Noise, Equals, 0.5)
	c.Assert(levels[pro].Depth, Equals, 4)
}

func (s *EngineSuite) TestParseDifficulty(c *C) {
	d, err := parseDifficulty("")
	c.Assert(err, IsNil)
	c.Assert(d, Equals, amateur)
	d, err = parseDifficulty("pro")
	c.Assert(err, IsNil)
	c.Assert(d, Equals, pro)
	_, err = parseDifficulty("grandmaster")
	c.Assert(err, NotNil)
}

func (s *EngineSuite) TestFindMove(c *C) {
	pos := chess.StartingPosition()
	move := findMove(pos, "e2", "e4", "")
	c.Assert(move, NotNil)
	c.Assert(move.String(), Equals, "e2e4")
	c.Assert(findMove(pos, "e2", "e5", ""), IsNil)
	c.Assert(findMove(pos, "zz", "e4", ""), IsNil)
	c.Assert(findMove(pos, "", "", ""), IsNil)
}

func (s *EngineSuite) TestFindMovePromotion(c *C) {
	pos := s.position(c, promotionFEN)
	move := findMove(pos, "a7", "a8", "")
	c.Assert(move, NotNil)
	c.Assert(move.String(), Equals, "a7a8q")
	move = findMove(pos, "a7", "a8", "n")
	c.Assert(move, NotNil)
	c.Assert(move.String(), Equals, "a7a8n")
	c.Assert(findMove(pos, "a7", "a8", "x"), IsNil)
}

func (s *EngineSuite) TestTerminal(c *C) {
	g, err := loadGame(matedFEN)
	c.Assert(err, IsNil)
	result, over := terminal(g)
	c.Assert(over, Equals, true)
	c.Assert(result, Equals, statusCheckmate)

	g, err = loadGame(stalemateFEN)
	c.Assert(err, IsNil)
	result, over = terminal(g)
	c.Assert(over, Equals, true)
	c.Assert(result, Equals, statusDraw)

	g, err = loadGame(startingFEN)
	c.Assert(err, IsNil)
	_, over = terminal(g)
	c.Assert(over, Equals, false)
}

func (s *EngineSuite) TestTerminalInsufficientMaterial(c *C) {
	g, err := loadGame("k7/8/8/8/8/8/8/K7 w - - 0 1")
	c.Assert(err, IsNil)
	result, over := terminal(g)
	c.Assert(over, Equals, true)
	c.Assert(result, Equals, statusDraw)

	g, err = loadGame("k7/8/8/8/8/8/8/KB6 w - - 0 1")
	c.Assert(err, IsNil)
	result, over = terminal(g)
	c.Assert(over, Equals, true)
	c.Assert(result, Equals, statusDraw)

	// Two minors are still a game.
	g, err = loadGame("kn6/8/8/8/8/8/8/KB6 w - - 0 1")
	c.Assert(err, IsNil)
	_, over = terminal(g)
	c.Assert(over, Equals, false)
}

func (s *EngineSuite) TestTerminalMoveClock(c *C) {
	g, err := loadGame("k7/8/8/8/8/8/1R6/K7 b - - 99 67")
	c.Assert(err, IsNil)
	_, over := terminal(g)
	c.Assert(over, Equals, false)

	g, err = loadGame("k7/8/8/8/8/8/1R6/K7 b - - 100 67")
	c.Assert(err, IsNil)
	result, over := terminal(g)
	c.Assert(over, Equals, true)
	c.Assert(result, Equals, statusDraw)
}

func (s *EngineSuite) TestStatusText(c *C) {
	c.Assert(Game{State: stateTerminal, Result: statusCheckmate}.statusText(), Equals, statusCheckmate)
	c.Assert(Game{State: stateTerminal}.statusText(), Equals, statusDraw)
	c.Assert(Game{State: stateAwaiting, Check: true}.statusText(), Equals, statusCheck)
	c.Assert(Game{State: stateAwaiting}.statusText(), Equals, statusNone)
}

func (s *EngineSuite) TestAnalyze(c *C) {
	game := Game{FEN: startingFEN}
	moves, summary, err := game.analyze()
	c.Assert(err, IsNil)
	c.Assert(moves, HasLen, 20)
	c.Assert(summary.Mean, Equals, 0.0)
	c.Assert(summary.Percentile, Equals, 0.0)

	game = Game{FEN: matedFEN}
	_, _, err = game.analyze()
	c.Assert(err, NotNil)
}

func (s *EngineSuite) TestLoadGameBadFEN(c *C) {
	_, err := loadGame("not a board")
	c.Assert(err, NotNil)
}
