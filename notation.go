package main

import (
	"strings"

	"github.com/notnil/chess"
)

var promotions = map[string]chess.PieceType{
	"":  chess.Queen,
	"b": chess.Bishop,
	"n": chess.Knight,
	"q": chess.Queen,
	"r": chess.Rook,
}

func parsePromotion(s string) (chess.PieceType, bool) {
	promo, ok := promotions[strings.ToLower(s)]
	return promo, ok
}

// findMove resolves a square-to-square proposal against the legal moves of a
// position. Promotion defaults to queen. Anything that fails to resolve, a
// malformed square or promotion letter included, comes back nil and is the
// caller's illegal move.
func findMove(pos *chess.Position, from, to, promotion string) *chess.Move {
	promo, ok := parsePromotion(promotion)
	if !ok {
		return nil
	}
	for _, move := range pos.ValidMoves() {
		if move.S1().String() != from || move.S2().String() != to {
			continue
		}
		if move.Promo() != chess.NoPieceType && move.Promo() != promo {
			continue
		}
		return move
	}
	return nil
}
