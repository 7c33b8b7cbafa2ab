package board

import "chessgrid/internal/core"

// FindValidRooks returns the unmoved rooks on the king's rank that the king
// could castle with: the king is unmoved and every square between the king
// and the edge holding the rook is empty.
func (b *Board) FindValidRooks(king *Square) []*Square {
	if king == nil || !king.is(core.PieceKing) || king.HasMoved() {
		return nil
	}

	var rooks []*Square
	pos := king.Position()
	for _, step := range []int{1, -1} {
		edge := 0
		if step == 1 {
			edge = Size - 1
		}
		for col := pos.Col + step; col >= 0 && col < Size; col += step {
			sq := b.grid[pos.Row][col]
			if col != edge {
				if sq.HasPiece() {
					break
				}
				continue
			}
			if sq.BelongsToTurn(king.Color()) && sq.is(core.PieceRook) && !sq.HasMoved() {
				rooks = append(rooks, sq)
			}
		}
	}
	return rooks
}

// FindCastlingMoves returns the king landing squares of every castling whose
// crossed and landing squares are outside the opponent's threat map
func (b *Board) FindCastlingMoves(king *Square, turn core.Color) MoveSet {
	return b.findCastlingMoves(king, turn, b.ListAllMovesFromOpponent(turn))
}

func (b *Board) findCastlingMoves(king *Square, turn core.Color, threats MoveSet) MoveSet {
	moves := MoveSet{}
	for _, rook := range b.FindValidRooks(king) {
		step := castlingStep(king.Position(), rook.Position())
		// the king needs two squares of room before the rook
		if (rook.Position().Col-king.Position().Col)*step <= 2 {
			continue
		}
		path := MoveSet{}
		path.Add(king.Position().Add(Coord{Col: step}), MoveNormal)
		landing := king.Position().Add(Coord{Col: 2 * step})
		path.Add(landing, MoveNormal)

		if len(b.RemoveDangerousMoves(path, threats)) == len(path) {
			moves.Add(landing, MoveCastling)
		}
	}
	return moves
}

func castlingStep(king, rook Coord) int {
	if rook.Col > king.Col {
		return 1
	}
	return -1
}
