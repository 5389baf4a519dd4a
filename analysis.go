package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
)

type moveScore struct {
	Move  string
	Score float64
}

type scoreSummary struct {
	Mean       float64
	Median     float64
	StdDev     float64
	Percentile float64
}

// analyze scores every legal move of the current position, noise-free, plus
// the distribution summary the rendering side shows next to the board. The
// 80th percentile matches the cut the selector's noise band plays around.
func (game Game) analyze() ([]moveScore, scoreSummary, error) {
	g, err := game.chessGame()
	if err != nil {
		return nil, scoreSummary{}, err
	}
	moves := g.ValidMoves()
	if len(moves) == 0 {
		return nil, scoreSummary{}, echo.NewHTTPError(http.StatusBadRequest, "no moves available")
	}
	pos := g.Position()
	scores := make([]moveScore, 0, len(moves))
	raw := make([]float64, 0, len(moves))
	for _, move := range moves {
		score := evaluate(pos.Update(move))
		scores = append(scores, moveScore{Move: move.String(), Score: score})
		raw = append(raw, score)
	}
	data := stats.LoadRawData(raw)
	var summary scoreSummary
	if summary.Mean, err = stats.Mean(data); err != nil {
		return nil, scoreSummary{}, err
	}
	if summary.Median, err = stats.Median(data); err != nil {
		return nil, scoreSummary{}, err
	}
	if summary.StdDev, err = stats.StandardDeviation(data); err != nil {
		return nil, scoreSummary{}, err
	}
	if summary.Percentile, err = stats.Percentile(data, 80); err != nil {
		return nil, scoreSummary{}, err
	}
	return scores, summary, nil
}
