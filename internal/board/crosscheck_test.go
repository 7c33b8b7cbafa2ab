package board

import (
	"math/bits"
	"math/rand"
	"testing"

	"chessgrid/internal/core"

	"github.com/dylhunn/dragontoothmg"
)

// bitIndex maps a grid coordinate onto a bitboard square. Any bijection that
// keeps rows and columns straight preserves ray geometry.
func bitIndex(c Coord) uint8 {
	return uint8(c.Row*Size + c.Col)
}

func toBitboard(m MoveSet) uint64 {
	var bb uint64
	for c := range m {
		bb |= 1 << bitIndex(c)
	}
	return bb
}

// TestSliderRaysMatchMagicBitboards compares ray walking against the magic
// bitboard tables of a bitboard move generator on random positions
func TestSliderRaysMatchMagicBitboards(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pieces := []core.Piece{core.PieceRook, core.PieceBishop, core.PieceQueen}

	for i := 0; i < 300; i++ {
		cells := map[Coord]string{}
		var occupied, own uint64

		for n := 0; n < 14; n++ {
			c := sq(rng.Intn(Size), rng.Intn(Size))
			color := "w"
			if rng.Intn(2) == 0 {
				color = "b"
			}
			cells[c] = color + "p"
		}

		slider := sq(rng.Intn(Size), rng.Intn(Size))
		piece := pieces[i%len(pieces)]
		cells[slider] = "w" + piece.String()

		for c, cell := range cells {
			occupied |= 1 << bitIndex(c)
			if cell[0] == 'w' {
				own |= 1 << bitIndex(c)
			}
		}

		b := mustBoard(t, core.ColorWhite, cells)
		got := toBitboard(b.CalculateMovements(b.Square(slider), core.ColorWhite, true))

		idx := bitIndex(slider)
		var want uint64
		switch piece {
		case core.PieceRook:
			want = dragontoothmg.CalculateRookMoveBitboard(idx, occupied)
		case core.PieceBishop:
			want = dragontoothmg.CalculateBishopMoveBitboard(idx, occupied)
		case core.PieceQueen:
			want = dragontoothmg.CalculateRookMoveBitboard(idx, occupied) |
				dragontoothmg.CalculateBishopMoveBitboard(idx, occupied)
		}
		want &^= own

		if got != want {
			t.Fatalf("position %d: %s at %s has %d targets, bitboard has %d (diff %064b)",
				i, piece.Name(), slider, bits.OnesCount64(got), bits.OnesCount64(want), got^want)
		}
	}
}
