package core

// Request types

type SquareRef struct {
	Row int `json:"row" validate:"min=0,max=7"`
	Col int `json:"col" validate:"min=0,max=7"`
}

type CreateGameRequest struct {
	Player   string     `json:"player" validate:"required,oneof=w b"`
	Turn     string     `json:"turn,omitempty" validate:"omitempty,oneof=w b"`
	Position [][]string `json:"position,omitempty" validate:"omitempty,max=16"`
}

type SelectRequest struct {
	Square SquareRef `json:"square"`
}

type MoveRequest struct {
	From SquareRef `json:"from"`
	To   SquareRef `json:"to"`
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=300"`
}

// Response types

type GameResponse struct {
	GameID     string       `json:"gameId"`
	Player     string       `json:"player"` // "w" or "b", decides board orientation
	Turn       string       `json:"turn"`
	State      string       `json:"state"`
	Position   [][]string   `json:"position"`
	Moves      []MoveInfo   `json:"moves"`
	Selected   *SquareRef   `json:"selected,omitempty"`
	LegalMoves []MoveTarget `json:"legalMoves,omitempty"`
	LastMove   *MoveInfo    `json:"lastMove,omitempty"`
	Tokens     *SeatTokens  `json:"tokens,omitempty"` // Only returned on creation
}

type SeatTokens struct {
	White string `json:"white"`
	Black string `json:"black"`
}

type MoveInfo struct {
	From        SquareRef `json:"from"`
	To          SquareRef `json:"to"`
	PlayerColor string    `json:"playerColor"`
	Piece       string    `json:"piece"`
	Captured    string    `json:"captured,omitempty"`
	Castling    bool      `json:"castling,omitempty"`
	EnPassant   bool      `json:"enPassant,omitempty"`
}

type MoveTarget struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Kind string `json:"kind"` // "normal", "castling" or "en-passant"
}

type SelectResponse struct {
	Selected   *SquareRef   `json:"selected,omitempty"`
	LegalMoves []MoveTarget `json:"legalMoves"`
	Moved      *MoveInfo    `json:"moved,omitempty"`
	Turn       string       `json:"turn"`
}

type MovesResponse struct {
	From  SquareRef    `json:"from"`
	Piece string       `json:"piece,omitempty"`
	Color string       `json:"color,omitempty"`
	Moves []MoveTarget `json:"moves"`
}

type ThreatsResponse struct {
	Color   string      `json:"color"`
	Squares []SquareRef `json:"squares"`
}

type BoardResponse struct {
	Position [][]string `json:"position"`
	Board    string     `json:"board"` // ASCII representation
}
