package game

import (
	"errors"
	"fmt"

	"chessgrid/internal/board"
	"chessgrid/internal/core"
)

var (
	ErrNotYourPiece = errors.New("origin square does not hold a piece of the side to move")
	ErrIllegalMove  = errors.New("destination is not a legal move")
	ErrInvalidUndo  = errors.New("invalid undo")
)

type Snapshot struct {
	Position     [][]string  `json:"position"`
	PreviousMove *MoveRecord `json:"previousMove,omitempty"`
	NextTurn     core.Color  `json:"nextTurn"`
}

// MoveRecord is the history entry of an applied move
type MoveRecord struct {
	From      board.Coord `json:"from"`
	To        board.Coord `json:"to"`
	Color     core.Color  `json:"color"`
	Piece     core.Piece  `json:"piece"`
	Captured  core.Piece  `json:"captured,omitempty"`
	Castling  bool        `json:"castling,omitempty"`
	EnPassant bool        `json:"enPassant,omitempty"`
}

func recordOf(res board.MoveResult) *MoveRecord {
	return &MoveRecord{
		From:      res.From,
		To:        res.To,
		Color:     res.Color,
		Piece:     res.Piece,
		Captured:  res.Captured,
		Castling:  res.Castling,
		EnPassant: res.EnPassant,
	}
}

// Selection is the outcome of a click. Origin is nil when nothing is
// selected, Moved is set when the click executed a move.
type Selection struct {
	Origin *board.Coord
	Moves  board.MoveSet
	Moved  *board.MoveResult
}

// Game owns a board, whose turn it is, the highlighted selection and the
// position history used for undo
type Game struct {
	board      *board.Board
	turn       core.Color
	snapshots  []Snapshot
	state      core.State
	selected   *board.Coord
	highlights board.MoveSet
	lastResult *board.MoveResult
}

// New creates a game seen from player with turn to move. A nil matrix starts
// from the standard arrangement. A malformed matrix returns its load error
// along with a game on the standard arrangement.
func New(player, turn core.Color, matrix [][]string) (*Game, error) {
	if !turn.Valid() {
		turn = core.ColorWhite
	}

	var (
		b   *board.Board
		err error
	)
	if matrix == nil {
		b = board.New(player)
	} else {
		b, err = board.NewFromMatrix(player, matrix)
	}

	g := &Game{
		board:      b,
		turn:       turn,
		state:      core.StateOngoing,
		highlights: board.MoveSet{},
	}
	g.snapshots = []Snapshot{{
		Position: b.Matrix(),
		NextTurn: turn,
	}}
	return g, err
}

func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) Player() core.Color {
	return g.board.Player()
}

func (g *Game) Turn() core.Color {
	return g.turn
}

// NextTurn hands the move to the other side. Move never calls it.
func (g *Game) NextTurn() core.Color {
	g.turn = core.OppositeColor(g.turn)
	g.snapshots[len(g.snapshots)-1].NextTurn = g.turn
	g.ClearSelection()
	return g.turn
}

// SelectSquare feeds one click into the selection state machine. Clicking an
// own piece selects it and highlights its legal moves. Clicking a highlighted
// destination while a piece is selected moves it. Anything else clears the
// selection.
func (g *Game) SelectSquare(pos board.Coord) (Selection, error) {
	sq := g.board.Square(pos)
	if sq != nil && sq.BelongsToTurn(g.turn) {
		g.ClearSelection()
		moves := g.board.LegalMoves(pos.Row, pos.Col, g.turn)
		origin := pos
		g.selected = &origin
		g.highlights = moves
		return Selection{Origin: &origin, Moves: g.Highlights()}, nil
	}

	if g.selected != nil && g.highlights.Contains(pos) {
		res, err := g.Move(*g.selected, pos)
		if err != nil {
			g.ClearSelection()
			return Selection{Moves: board.MoveSet{}}, err
		}
		return Selection{Moves: board.MoveSet{}, Moved: &res}, nil
	}

	g.ClearSelection()
	return Selection{Moves: board.MoveSet{}}, nil
}

// Move applies a move of the side to move after checking it is legal. The
// turn is not advanced.
func (g *Game) Move(from, to board.Coord) (board.MoveResult, error) {
	sq := g.board.Square(from)
	if sq == nil || !sq.BelongsToTurn(g.turn) {
		return board.MoveResult{}, fmt.Errorf("%w: %s for %s", ErrNotYourPiece, from, g.turn.Name())
	}

	legal := g.board.LegalMoves(from.Row, from.Col, g.turn)
	if !legal.Contains(to) {
		return board.MoveResult{}, fmt.Errorf("%w: %s %s -> %s", ErrIllegalMove, sq.Piece().Name(), from, to)
	}

	res, err := g.board.MovePiece(from, to)
	if err != nil {
		return board.MoveResult{}, err
	}

	g.snapshots = append(g.snapshots, Snapshot{
		Position:     g.board.Matrix(),
		PreviousMove: recordOf(res),
		NextTurn:     g.turn,
	})
	g.lastResult = &res
	g.ClearSelection()
	return res, nil
}

// LegalMoves is the legal-move set of the piece on pos for the side to move
func (g *Game) LegalMoves(pos board.Coord) board.MoveSet {
	return g.board.LegalMoves(pos.Row, pos.Col, g.turn)
}

func (g *Game) Threats(color core.Color) board.MoveSet {
	return g.board.ThreatMap(color)
}

// Selected returns the selected origin, if any
func (g *Game) Selected() (board.Coord, bool) {
	if g.selected == nil {
		return board.Coord{}, false
	}
	return *g.selected, true
}

// Highlights returns a copy of the highlighted destinations
func (g *Game) Highlights() board.MoveSet {
	out := make(board.MoveSet, len(g.highlights))
	for c, k := range g.highlights {
		out[c] = k
	}
	return out
}

func (g *Game) ClearSelection() {
	g.selected = nil
	g.highlights = board.MoveSet{}
}

// UndoMoves rewinds the position and turn by count moves
func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("%w: count %d", ErrInvalidUndo, count)
	}

	available := len(g.snapshots) - 1
	if available < count {
		return fmt.Errorf("%w: cannot undo %d moves, only %d available", ErrInvalidUndo, count, available)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	snap := g.CurrentSnapshot()
	if err := g.board.LoadMatrix(snap.Position); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	g.turn = snap.NextTurn
	g.state = core.StateOngoing
	g.lastResult = nil
	g.ClearSelection()
	return nil
}

func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

// Moves lists the applied moves oldest first
func (g *Game) Moves() []MoveRecord {
	moves := []MoveRecord{}
	for i := 1; i < len(g.snapshots); i++ {
		if m := g.snapshots[i].PreviousMove; m != nil {
			moves = append(moves, *m)
		}
	}
	return moves
}

func (g *Game) MoveCount() int {
	return len(g.snapshots) - 1
}

func (g *Game) InitialPosition() [][]string {
	return g.snapshots[0].Position
}

func (g *Game) CurrentPosition() [][]string {
	return g.board.Matrix()
}

func (g *Game) LastResult() *board.MoveResult {
	return g.lastResult
}

func (g *Game) State() core.State {
	return g.state
}

func (g *Game) SetState(s core.State) {
	g.state = s
}
