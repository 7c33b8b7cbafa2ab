package board

import (
	"testing"

	"chessgrid/internal/core"
)

func castlingCells(extra map[Coord]string) map[Coord]string {
	cells := map[Coord]string{
		sq(7, 4): "wk*",
		sq(7, 7): "wr*",
		sq(7, 0): "wr*",
		sq(0, 0): "bk",
	}
	for c, cell := range extra {
		cells[c] = cell
	}
	return cells
}

func TestCastlingOffered(t *testing.T) {
	b := mustBoard(t, core.ColorWhite, castlingCells(nil))
	moves := b.LegalMoves(7, 4, core.ColorWhite)

	assertMoves(t, moves,
		sq(6, 3), sq(6, 4), sq(6, 5), sq(7, 3), sq(7, 5),
		sq(7, 6), sq(7, 2))
	if moves[sq(7, 6)] != MoveCastling || moves[sq(7, 2)] != MoveCastling {
		t.Fatalf("landing squares not marked as castling: %v %v", moves[sq(7, 6)], moves[sq(7, 2)])
	}

	if rooks := b.FindValidRooks(b.PieceAt(7, 4)); len(rooks) != 2 {
		t.Fatalf("found %d rooks, want 2", len(rooks))
	}
}

func TestCastlingRefused(t *testing.T) {
	tests := []struct {
		name      string
		extra     map[Coord]string
		kingside  bool
		queenside bool
	}{
		{"king moved", map[Coord]string{sq(7, 4): "wk"}, false, false},
		{"rook moved", map[Coord]string{sq(7, 7): "wr"}, false, true},
		{"piece between", map[Coord]string{sq(7, 5): "wb"}, false, true},
		{"opponent piece between", map[Coord]string{sq(7, 1): "bn"}, true, false},
		{"crossed square threatened", map[Coord]string{sq(0, 5): "br"}, false, true},
		{"landing square threatened", map[Coord]string{sq(0, 2): "br"}, true, false},
		{"foreign rook", map[Coord]string{sq(7, 7): "br*"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, core.ColorWhite, castlingCells(tt.extra))
			moves := b.LegalMoves(7, 4, core.ColorWhite)

			if got := moves[sq(7, 6)] == MoveCastling && moves.Contains(sq(7, 6)); got != tt.kingside {
				t.Errorf("kingside castling = %v, want %v", got, tt.kingside)
			}
			if got := moves[sq(7, 2)] == MoveCastling && moves.Contains(sq(7, 2)); got != tt.queenside {
				t.Errorf("queenside castling = %v, want %v", got, tt.queenside)
			}
		})
	}
}

func TestCastlingWhileInCheck(t *testing.T) {
	// only the crossed and landing squares are inspected
	b := mustBoard(t, core.ColorWhite, castlingCells(map[Coord]string{sq(2, 4): "br"}))
	moves := b.FindCastlingMoves(b.PieceAt(7, 4), core.ColorWhite)
	if !moves.Contains(sq(7, 6)) || !moves.Contains(sq(7, 2)) {
		t.Fatalf("castling moves = %v", moves.Sorted())
	}
}

func TestCastlingBlackOrientation(t *testing.T) {
	b := mustBoard(t, core.ColorBlack, map[Coord]string{
		sq(7, 3): "bk*",
		sq(7, 0): "br*",
		sq(7, 7): "br*",
		sq(0, 3): "wk",
	})
	moves := b.FindCastlingMoves(b.PieceAt(7, 3), core.ColorBlack)
	assertMoves(t, moves, sq(7, 1), sq(7, 5))
}

func TestCastlingNeedsRoom(t *testing.T) {
	b := mustBoard(t, core.ColorWhite, map[Coord]string{
		sq(7, 6): "wk*",
		sq(7, 7): "wr*",
		sq(0, 0): "bk",
	})
	if moves := b.FindCastlingMoves(b.PieceAt(7, 6), core.ColorWhite); len(moves) != 0 {
		t.Fatalf("castling offered next to the rook: %v", moves.Sorted())
	}
}
