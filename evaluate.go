package main

import "github.com/notnil/chess"

// Material values in pawns. The king scores zero so a full board sums to
// parity and mate detection stays with the rules engine.
var pieceValues = map[chess.PieceType]float64{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
	chess.King:   0,
}

// evaluate scores a position by material alone, positive favoring White.
func evaluate(pos *chess.Position) float64 {
	board := pos.Board()
	score := 0.0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		value := pieceValues[piece.Type()]
		if piece.Color() == chess.White {
			score += value
		} else {
			score -= value
		}
	}
	return score
}
