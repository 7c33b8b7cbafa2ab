package board

import (
	"errors"
	"fmt"
	"strings"

	"chessgrid/internal/core"
)

// Size is the number of rows and columns of the grid
const Size = 8

var (
	ErrBoardSize         = errors.New("board must be 8x8")
	ErrInvalidColor      = errors.New("invalid color")
	ErrInvalidPiece      = errors.New("invalid piece")
	ErrInvalidEncoding   = errors.New("invalid square encoding")
	ErrOutOfBounds       = errors.New("coordinate out of bounds")
	ErrEmptySquare       = errors.New("no piece on origin square")
	ErrSameSquare        = errors.New("origin and destination are the same square")
	ErrCastlingInvariant = errors.New("castling rook not found on the king's rank")
)

var backRank = [Size]core.Piece{
	core.PieceRook,
	core.PieceKnight,
	core.PieceBishop,
	core.PieceQueen,
	core.PieceKing,
	core.PieceBishop,
	core.PieceKnight,
	core.PieceRook,
}

// Board owns the grid and the orientation derived from the local player.
// The player's pieces start on rows 6 and 7.
type Board struct {
	grid        [Size][Size]*Square
	player      core.Color
	opponent    core.Color
	orientation int
}

// New creates a board in the standard starting arrangement
func New(player core.Color) *Board {
	b := newBoard(player)
	b.Reset()
	return b
}

// NewFromMatrix creates a board from an encoded position. On malformed input
// the error is returned along with a board in the standard arrangement.
func NewFromMatrix(player core.Color, matrix [][]string) (*Board, error) {
	b := newBoard(player)
	if err := b.LoadMatrix(matrix); err != nil {
		return b, err
	}
	return b, nil
}

func newBoard(player core.Color) *Board {
	if !player.Valid() {
		player = core.ColorWhite
	}
	b := &Board{
		player:   player,
		opponent: core.OppositeColor(player),
	}
	if player == core.ColorWhite {
		b.orientation = -1
	} else {
		b.orientation = 1
	}
	return b
}

func (b *Board) Player() core.Color {
	return b.player
}

func (b *Board) Opponent() core.Color {
	return b.opponent
}

// Orientation is -1 when white pawns advance toward row 0, +1 otherwise
func (b *Board) Orientation() int {
	return b.orientation
}

// PawnDirection returns the row delta of a pawn advance for the color
func (b *Board) PawnDirection(c core.Color) int {
	if c == core.ColorWhite {
		return b.orientation
	}
	return -b.orientation
}

func (b *Board) isDark(row, col int) bool {
	pattern := 0
	if b.orientation == 1 {
		pattern = 1
	}
	return (row+col)%2 == pattern
}

// Reset rebuilds the grid with the standard starting arrangement
func (b *Board) Reset() {
	order := backRank
	if b.orientation == 1 {
		for i, j := 0, Size-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	for r := 0; r < Size; r++ {
		color := core.ColorBlack
		if (r < 2 && b.orientation == 1) || (r > 5 && b.orientation == -1) {
			color = core.ColorWhite
		}

		for c := 0; c < Size; c++ {
			sq := newSquare(Coord{Row: r, Col: c}, b.isDark(r, c))
			switch r {
			case 0, Size - 1:
				sq.place(order[c], color, false, false)
			case 1, Size - 2:
				sq.place(core.PiecePawn, color, false, false)
			}
			b.grid[r][c] = sq
		}
	}
}

// LoadMatrix replaces the grid with an encoded position. Any malformed row or
// cell aborts the load and resets the board to the starting arrangement.
func (b *Board) LoadMatrix(matrix [][]string) error {
	if len(matrix) != Size {
		b.Reset()
		return fmt.Errorf("%w. creating a default board", ErrBoardSize)
	}

	var grid [Size][Size]*Square
	for r, row := range matrix {
		if len(row) != Size {
			b.Reset()
			return fmt.Errorf("%w. creating a default board", ErrBoardSize)
		}
		for c, cell := range row {
			st, err := decodeCell(cell)
			if err != nil {
				b.Reset()
				return err
			}
			sq := newSquare(Coord{Row: r, Col: c}, b.isDark(r, c))
			if st.piece != core.PieceNone {
				sq.place(st.piece, st.color, st.hasMoved, st.enPassant)
			}
			grid[r][c] = sq
		}
	}

	b.grid = grid
	return nil
}

// Matrix exports the current position in the same encoding LoadMatrix reads
func (b *Board) Matrix() [][]string {
	m := make([][]string, Size)
	for r := 0; r < Size; r++ {
		m[r] = make([]string, Size)
		for c := 0; c < Size; c++ {
			m[r][c] = b.grid[r][c].String()
		}
	}
	return m
}

// PieceAt returns the square at row/col, nil when out of bounds
func (b *Board) PieceAt(row, col int) *Square {
	return b.Square(Coord{Row: row, Col: col})
}

func (b *Board) Square(c Coord) *Square {
	if !c.InBounds() {
		return nil
	}
	return b.grid[c.Row][c.Col]
}

// squaresOf lists the occupied squares of a color in row-major order
func (b *Board) squaresOf(color core.Color) []*Square {
	var out []*Square
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if sq := b.grid[r][c]; sq.BelongsToTurn(color) {
				out = append(out, sq)
			}
		}
	}
	return out
}

// ToASCII creates an ASCII representation of the board, white upper case
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  0 1 2 3 4 5 6 7\n")

	for r := 0; r < Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", r))
		for c := 0; c < Size; c++ {
			sq := b.grid[r][c]
			if sq.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", Glyph(sq)))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r))
	}
	sb.WriteString("  0 1 2 3 4 5 6 7")

	return sb.String()
}

// Glyph returns the piece letter, upper case for white
func Glyph(sq *Square) byte {
	if sq == nil || sq.IsEmpty() {
		return '.'
	}
	ch := byte(sq.Piece())
	if sq.Color() == core.ColorWhite {
		ch -= 'a' - 'A'
	}
	return ch
}
