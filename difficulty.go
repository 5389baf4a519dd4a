package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type difficulty string

const (
	easy    difficulty = "easy"
	amateur difficulty = "amateur"
	pro     difficulty = "pro"
)

// level describes one opponent strength. Depth is the nominal lookahead the
// level advertises; the selector stays single-ply and only Noise changes play.
type level struct {
	Depth int
	Noise float64
}

var levels = map[difficulty]level{
	easy:    {Depth: 0, Noise: 0},
	amateur: {Depth: 2, Noise: 2.0},
	pro:     {Depth: 4, Noise: 0.5},
}

func parseDifficulty(s string) (difficulty, error) {
	if s == "" {
		return amateur, nil
	}
	d := difficulty(s)
	if _, ok := levels[d]; !ok {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid difficulty")
	}
	return d, nil
}
