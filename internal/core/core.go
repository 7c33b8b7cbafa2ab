package core

type State int

const (
	StateOngoing State = iota
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StateOngoing:
		return "ongoing"
	case StateAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

type Color byte

const (
	ColorNone  Color = 0
	ColorWhite Color = 'w'
	ColorBlack Color = 'b'
)

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "w"
	case ColorBlack:
		return "b"
	default:
		return "-"
	}
}

// Name returns the human readable color name
func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "None"
	}
}

func (c Color) Valid() bool {
	return c == ColorWhite || c == ColorBlack
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// ParseColor accepts "w"/"white" and "b"/"black"
func ParseColor(s string) (Color, bool) {
	switch s {
	case "w", "white":
		return ColorWhite, true
	case "b", "black":
		return ColorBlack, true
	default:
		return ColorNone, false
	}
}

type Piece byte

const (
	PieceNone   Piece = 0
	PiecePawn   Piece = 'p'
	PieceRook   Piece = 'r'
	PieceKnight Piece = 'n'
	PieceBishop Piece = 'b'
	PieceQueen  Piece = 'q'
	PieceKing   Piece = 'k'
)

func (p Piece) Valid() bool {
	switch p {
	case PiecePawn, PieceRook, PieceKnight, PieceBishop, PieceQueen, PieceKing:
		return true
	default:
		return false
	}
}

func (p Piece) String() string {
	if p == PieceNone {
		return ""
	}
	return string(rune(p))
}

// Name returns the lower-case piece name
func (p Piece) Name() string {
	switch p {
	case PiecePawn:
		return "pawn"
	case PieceRook:
		return "rook"
	case PieceKnight:
		return "knight"
	case PieceBishop:
		return "bishop"
	case PieceQueen:
		return "queen"
	case PieceKing:
		return "king"
	default:
		return "none"
	}
}
