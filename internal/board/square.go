package board

import (
	"fmt"
	"strings"

	"chessgrid/internal/core"
)

const (
	unmovedMarker   = '*'
	enPassantMarker = '^'
)

// Coord addresses a grid cell by row and column index
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) InBounds() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

func (c Coord) Add(d Coord) Coord {
	return Coord{Row: c.Row + d.Row, Col: c.Col + d.Col}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Square is a single grid cell. Position and shade are fixed at creation,
// the occupant is mutated in place by move application.
type Square struct {
	position  Coord
	piece     core.Piece
	color     core.Color
	occupied  bool
	hasMoved  bool
	enPassant bool
	dark      bool
}

func newSquare(pos Coord, dark bool) *Square {
	return &Square{position: pos, dark: dark}
}

func (s *Square) Position() Coord {
	return s.position
}

func (s *Square) Piece() core.Piece {
	return s.piece
}

func (s *Square) Color() core.Color {
	return s.color
}

// SetPiece places a piece kind, PieceNone empties the square
func (s *Square) SetPiece(p core.Piece) {
	if p == core.PieceNone {
		s.Clear()
		return
	}
	s.piece = p
	s.occupied = true
}

// SetColor sets the occupant color, ColorNone empties the square
func (s *Square) SetColor(c core.Color) {
	if c == core.ColorNone {
		s.Clear()
		return
	}
	s.color = c
	s.occupied = true
}

// Clear removes the occupant and its flags
func (s *Square) Clear() {
	s.piece = core.PieceNone
	s.color = core.ColorNone
	s.occupied = false
	s.hasMoved = false
	s.enPassant = false
}

func (s *Square) place(p core.Piece, c core.Color, hasMoved, enPassant bool) {
	s.piece = p
	s.color = c
	s.occupied = true
	s.hasMoved = hasMoved
	s.enPassant = enPassant && p == core.PiecePawn
}

// HasMoved reports whether the occupant ever moved. The same flag gates the
// pawn double advance and castling eligibility of king and rook.
func (s *Square) HasMoved() bool {
	return s.hasMoved
}

func (s *Square) SetHasMoved(v bool) {
	s.hasMoved = v
}

func (s *Square) EnPassant() bool {
	return s.enPassant
}

func (s *Square) SetEnPassant(v bool) {
	s.enPassant = v && s.piece == core.PiecePawn
}

func (s *Square) IsDarkSquare() bool {
	return s.dark
}

func (s *Square) HasPiece() bool {
	return s.occupied
}

func (s *Square) IsEmpty() bool {
	return !s.occupied
}

// BelongsToTurn reports an occupant of the given color
func (s *Square) BelongsToTurn(turn core.Color) bool {
	return s.occupied && s.color == turn
}

// BelongsToOpponent reports an occupant of the other color. Empty squares
// never belong to the opponent.
func (s *Square) BelongsToOpponent(turn core.Color) bool {
	return s.occupied && s.color != turn
}

func (s *Square) is(p core.Piece) bool {
	return s.occupied && s.piece == p
}

// String encodes the occupant as <color><piece>[*][^]
func (s *Square) String() string {
	if !s.occupied {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte(byte(s.color))
	sb.WriteByte(byte(s.piece))
	if !s.hasMoved {
		sb.WriteByte(unmovedMarker)
	}
	if s.enPassant && s.piece == core.PiecePawn {
		sb.WriteByte(enPassantMarker)
	}
	return sb.String()
}

type cellState struct {
	piece     core.Piece
	color     core.Color
	hasMoved  bool
	enPassant bool
}

// decodeCell parses one matrix cell, the empty string decodes to an empty square
func decodeCell(cell string) (cellState, error) {
	if cell == "" {
		return cellState{}, nil
	}

	color := core.Color(cell[0])
	if !color.Valid() {
		return cellState{}, fmt.Errorf("%w, expected 'b' or 'w', but got: %c. creating a default board", ErrInvalidColor, cell[0])
	}

	var piece core.Piece
	if len(cell) > 1 {
		piece = core.Piece(cell[1])
	}
	if !piece.Valid() {
		return cellState{}, fmt.Errorf("%w, expected 'p', 'k', 'q', 'b', 'n' or 'r', but got: %s. creating a default board", ErrInvalidPiece, piece)
	}

	var markers string
	if len(cell) > 2 {
		markers = cell[2:]
	}
	for i := 0; i < len(markers); i++ {
		if markers[i] != unmovedMarker && markers[i] != enPassantMarker {
			return cellState{}, fmt.Errorf("%w %q. creating a default board", ErrInvalidEncoding, cell)
		}
	}

	return cellState{
		piece:     piece,
		color:     color,
		hasMoved:  !strings.ContainsRune(markers, unmovedMarker),
		enPassant: piece == core.PiecePawn && strings.ContainsRune(markers, enPassantMarker),
	}, nil
}
