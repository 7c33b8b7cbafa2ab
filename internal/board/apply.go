package board

import (
	"fmt"

	"chessgrid/internal/core"
)

// MoveResult describes what MovePiece changed on the grid
type MoveResult struct {
	From      Coord      `json:"from"`
	To        Coord      `json:"to"`
	Piece     core.Piece `json:"piece"`
	Color     core.Color `json:"color"`
	Captured  core.Piece `json:"captured,omitempty"`
	CaptureAt Coord      `json:"captureAt"`
	Castling  bool       `json:"castling,omitempty"`
	RookFrom  Coord      `json:"rookFrom"`
	RookTo    Coord      `json:"rookTo"`
	EnPassant bool       `json:"enPassant,omitempty"`
}

// MovePiece moves the occupant of from onto to and marks it as moved. A king
// stepping two columns along its rank castles and drags the rook of that side
// next to it. A pawn moving diagonally onto an empty square captures en
// passant. Legality of the destination is not checked here.
func (b *Board) MovePiece(from, to Coord) (MoveResult, error) {
	if !from.InBounds() || !to.InBounds() {
		return MoveResult{}, fmt.Errorf("%w: %s -> %s", ErrOutOfBounds, from, to)
	}
	if from == to {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrSameSquare, from)
	}

	origin := b.grid[from.Row][from.Col]
	if origin.IsEmpty() {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrEmptySquare, from)
	}
	dest := b.grid[to.Row][to.Col]

	res := MoveResult{
		From:  from,
		To:    to,
		Piece: origin.Piece(),
		Color: origin.Color(),
	}

	if dest.HasPiece() {
		res.Captured = dest.Piece()
		res.CaptureAt = to
	}

	var victim *Square
	if origin.is(core.PiecePawn) && from.Col != to.Col && dest.IsEmpty() {
		side := b.grid[from.Row][to.Col]
		if side.BelongsToOpponent(origin.Color()) && side.is(core.PiecePawn) {
			victim = side
			res.Captured = side.Piece()
			res.CaptureAt = side.Position()
			res.EnPassant = true
		}
	}

	var rook *Square
	if origin.is(core.PieceKing) && from.Row == to.Row && abs(to.Col-from.Col) == 2 {
		step := castlingStep(from, to)
		edge := 0
		if step == 1 {
			edge = Size - 1
		}
		rookFrom := Coord{Row: from.Row, Col: edge}
		rookTo := Coord{Row: to.Row, Col: to.Col - step}
		if err := b.checkCastlingRook(origin, rookFrom, rookTo); err != nil {
			return MoveResult{}, err
		}
		rook = b.grid[rookFrom.Row][rookFrom.Col]
		res.Castling = true
		res.RookFrom = rookFrom
		res.RookTo = rookTo
	}

	// en-passant eligibility lasts one opponent turn
	for _, sq := range b.squaresOf(origin.Color()) {
		sq.SetEnPassant(false)
	}

	if victim != nil {
		victim.Clear()
	}

	dest.place(origin.Piece(), origin.Color(), true, false)
	origin.Clear()

	if dest.is(core.PiecePawn) && abs(to.Row-from.Row) == 2 {
		dest.SetEnPassant(true)
	}

	if rook != nil {
		b.grid[res.RookTo.Row][res.RookTo.Col].place(rook.Piece(), rook.Color(), true, false)
		rook.Clear()
	}

	return res, nil
}

// checkCastlingRook enforces that a castling rook exists on the king's rank.
// A violation is a caller bug and is reported instead of ignored.
func (b *Board) checkCastlingRook(king *Square, rookFrom, rookTo Coord) error {
	if rookFrom.Row != king.Position().Row || rookTo.Row != king.Position().Row {
		return fmt.Errorf("%w: king on row %d, rook on row %d", ErrCastlingInvariant, king.Position().Row, rookFrom.Row)
	}
	rook := b.grid[rookFrom.Row][rookFrom.Col]
	if !rook.BelongsToTurn(king.Color()) || !rook.is(core.PieceRook) {
		return fmt.Errorf("%w: no %s rook at %s", ErrCastlingInvariant, king.Color().Name(), rookFrom)
	}
	if target := b.grid[rookTo.Row][rookTo.Col]; target.HasPiece() {
		return fmt.Errorf("%w: rook destination %s is occupied", ErrCastlingInvariant, rookTo)
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
