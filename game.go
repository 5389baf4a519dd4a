package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/notnil/chess"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	stateAwaiting = "awaiting"
	stateReplying = "replying"
	stateTerminal = "terminal"
)

const (
	statusNone      = "none"
	statusCheck     = "check"
	statusCheckmate = "checkmate"
	statusDraw      = "draw"
)

// hintDisplay is how long a requested hint stays on the session before the
// idle sweep clears it.
const hintDisplay = 5 * time.Second

var startingFEN = chess.StartingPosition().String()

// Game is one play session: the authoritative position as FEN, the opponent
// strength, and the ephemeral hint. The human always has the move while the
// session sits in stateAwaiting.
type Game struct {
	gorm.Model

	GameID     uuid.UUID `gorm:"<-:create;type:varchar;size:36;uniqueIndex"`
	Difficulty string
	FEN        string `gorm:"type:varchar;size:92;not null"`
	State      string `gorm:"index"`
	Result     string
	Check      bool
	MoveCount  int
	Hint       string
	HintUntil  *time.Time

	Status string `gorm:"-"`
}

func gameIdle() error {
	now := time.Now()
	if err := db.Model(&Game{}).Where("hint_until < ?", now).Updates(map[string]interface{}{"hint": "", "hint_until": nil}).Error; err != nil {
		return err
	}
	hourAgo := now.Add(-time.Hour)
	return db.Where(Game{State: stateTerminal}).Where("updated_at < ?", hourAgo).Delete(&Game{}).Error
}

func makeGame(d difficulty, fen string) (*Game, error) {
	if fen == "" {
		fen = startingFEN
	}
	g, err := loadGame(fen)
	if err != nil {
		return nil, err
	}
	game := &Game{GameID: uuid.NewV4(), Difficulty: string(d), FEN: g.Position().String(), State: stateAwaiting}
	if result, over := terminal(g); over {
		game.State = stateTerminal
		game.Result = result
	}
	if err := db.Create(game).Error; err != nil {
		return nil, err
	}
	return getGame(game.GameID)
}

func getGame(id uuid.UUID) (*Game, error) {
	var game Game
	if err := db.First(&game, Game{GameID: id}).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func getGames() ([]Game, error) {
	var games []Game
	if err := db.Not(Game{State: stateTerminal}).Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// withGame runs fn over a row-locked session so a second submit or hint
// queues behind a pending opponent reply instead of interleaving with it.
func withGame(id uuid.UUID, fn func(tx *gorm.DB, game *Game) error) (*Game, error) {
	var game Game
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&game, Game{GameID: id}).Error; err != nil {
			return err
		}
		return fn(tx, &game)
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func loadGame(fen string) (*chess.Game, error) {
	option, err := chess.FEN(fen)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid board")
	}
	return chess.NewGame(option), nil
}

func (game Game) chessGame() (*chess.Game, error) {
	return loadGame(game.FEN)
}

// terminal reports whether play is over and how, through the rules engine.
// A moveless position with no recognized method still ends the game.
func terminal(g *chess.Game) (string, bool) {
	if g.Outcome() != chess.NoOutcome {
		if g.Method() == chess.Checkmate {
			return statusCheckmate, true
		}
		return statusDraw, true
	}
	switch g.Position().Status() {
	case chess.Checkmate:
		return statusCheckmate, true
	case chess.Stalemate:
		return statusDraw, true
	}
	if len(g.ValidMoves()) == 0 {
		return statusDraw, true
	}
	if insufficientMaterial(g.Position().Board()) {
		return statusDraw, true
	}
	if halfMoveClock(g.Position()) >= 100 {
		return statusDraw, true
	}
	return "", false
}

// insufficientMaterial reports bare kings plus at most one minor piece,
// positions the engine only flags while tracking committed moves.
func insufficientMaterial(board *chess.Board) bool {
	minors := 0
	for _, piece := range board.SquareMap() {
		switch piece.Type() {
		case chess.Pawn, chess.Rook, chess.Queen:
			return false
		case chess.Bishop, chess.Knight:
			minors++
		}
	}
	return minors <= 1
}

// halfMoveClock reads the fifty-move counter from the position's FEN.
func halfMoveClock(pos *chess.Position) int {
	fields := strings.Fields(pos.String())
	if len(fields) < 5 {
		return 0
	}
	clock, err := strconv.Atoi(fields[4])
	if err != nil {
		return 0
	}
	return clock
}

// statusText derives the display status, checkmate > draw > check > none.
func (game Game) statusText() string {
	if game.State == stateTerminal {
		if game.Result != "" {
			return game.Result
		}
		return statusDraw
	}
	if game.Check {
		return statusCheck
	}
	return statusNone
}

func (game *Game) derive() *Game {
	game.Status = game.statusText()
	return game
}

// commit applies one move and replaces the session's position with the
// engine's new one.
func (game *Game) commit(g *chess.Game, move *chess.Move) error {
	if err := g.Move(move); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid move")
	}
	game.FEN = g.Position().String()
	game.Check = move.HasTag(chess.Check)
	game.MoveCount = game.MoveCount + 1
	if result, over := terminal(g); over {
		game.State = stateTerminal
		game.Result = result
	}
	return nil
}

func (game *Game) submitMove(tx *gorm.DB, from, to, promotion string) error {
	if game.State == stateTerminal {
		return echo.NewHTTPError(http.StatusBadRequest, "game is over")
	}
	if game.State != stateAwaiting {
		return echo.NewHTTPError(http.StatusNotAcceptable, "not your turn")
	}
	g, err := game.chessGame()
	if err != nil {
		return err
	}
	move := findMove(g.Position(), from, to, promotion)
	if move == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid move")
	}
	game.Hint = ""
	game.HintUntil = nil
	game.State = stateReplying
	if err := game.commit(g, move); err != nil {
		return err
	}
	if err := tx.Save(game).Error; err != nil {
		return err
	}
	if game.State == stateTerminal {
		return nil
	}
	time.Sleep(*replyDelay)
	return game.reply(tx, g)
}

// reply is the opponent step. The caller has already excluded terminal and
// moveless positions, so a selector failure here is a broken contract.
func (game *Game) reply(tx *gorm.DB, g *chess.Game) error {
	move, err := chooseMove(g.Position(), difficulty(game.Difficulty))
	if err != nil {
		log.WithError(err).Error("opponent step on a moveless position")
		panic(err)
	}
	game.State = stateAwaiting
	if err := game.commit(g, move); err != nil {
		return err
	}
	return tx.Save(game).Error
}

func (game *Game) makeHint(tx *gorm.DB) error {
	if game.State == stateTerminal {
		return echo.NewHTTPError(http.StatusBadRequest, "game is over")
	}
	if game.State != stateAwaiting {
		return echo.NewHTTPError(http.StatusNotAcceptable, "not your turn")
	}
	g, err := game.chessGame()
	if err != nil {
		return err
	}
	move, err := chooseMove(g.Position(), difficulty(game.Difficulty))
	if err != nil {
		log.WithError(err).Error("hint on a moveless position")
		panic(err)
	}
	until := time.Now().Add(hintDisplay)
	game.Hint = move.String()
	game.HintUntil = &until
	return tx.Save(game).Error
}

func (game *Game) reset(tx *gorm.DB, d difficulty) error {
	game.FEN = startingFEN
	game.Difficulty = string(d)
	game.State = stateAwaiting
	game.Result = ""
	game.Check = false
	game.MoveCount = 0
	game.Hint = ""
	game.HintUntil = nil
	return tx.Save(game).Error
}
