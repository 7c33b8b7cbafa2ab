package board

import (
	"sort"

	"chessgrid/internal/core"

	"golang.org/x/exp/maps"
)

type MoveKind int

const (
	MoveNormal MoveKind = iota
	MoveCastling
	MoveEnPassant
)

func (k MoveKind) String() string {
	switch k {
	case MoveCastling:
		return "castling"
	case MoveEnPassant:
		return "en-passant"
	default:
		return "normal"
	}
}

// MoveSet is a set of destinations keyed by coordinate
type MoveSet map[Coord]MoveKind

// Add inserts a destination. A special kind already recorded is kept.
func (m MoveSet) Add(c Coord, k MoveKind) {
	if cur, ok := m[c]; ok && cur != MoveNormal {
		return
	}
	m[c] = k
}

func (m MoveSet) Contains(c Coord) bool {
	_, ok := m[c]
	return ok
}

func (m MoveSet) Union(o MoveSet) {
	for c, k := range o {
		m.Add(c, k)
	}
}

// Sorted returns the destinations in row-major order
func (m MoveSet) Sorted() []Coord {
	coords := maps.Keys(m)
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return coords
}

var (
	orthogonal = []Coord{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonal   = []Coord{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	allRays    = append(append([]Coord{}, orthogonal...), diagonal...)

	knightJumps = []Coord{
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
	}
)

// LegalMoves returns the legal destinations of the piece at row/col for the
// side to move. Empty squares and foreign pieces yield an empty set.
func (b *Board) LegalMoves(row, col int, turn core.Color) MoveSet {
	sq := b.PieceAt(row, col)
	if sq == nil || !sq.BelongsToTurn(turn) {
		return MoveSet{}
	}
	return b.CalculateMovements(sq, turn, false)
}

// CalculateMovements generates the destinations of the piece on sq as seen by
// turn. King moves get castling and threat filtering unless skipKingSafety is
// set, which the threat map uses to stop the two kings recursing into each other.
func (b *Board) CalculateMovements(sq *Square, turn core.Color, skipKingSafety bool) MoveSet {
	moves := MoveSet{}
	if sq == nil || sq.IsEmpty() {
		return moves
	}

	switch sq.Piece() {
	case core.PieceRook:
		b.slide(moves, sq, turn, orthogonal)
	case core.PieceBishop:
		b.slide(moves, sq, turn, diagonal)
	case core.PieceQueen:
		b.slide(moves, sq, turn, allRays)
	case core.PieceKnight:
		b.jump(moves, sq, turn, knightJumps)
	case core.PiecePawn:
		b.pawnMoves(moves, sq, turn)
	case core.PieceKing:
		b.jump(moves, sq, turn, allRays)
		if !skipKingSafety {
			threats := b.ListAllMovesFromOpponent(turn)
			moves.Union(b.findCastlingMoves(sq, turn, threats))
			moves = b.RemoveDangerousMoves(moves, threats)
		}
	}

	return moves
}

// slide walks each ray until the edge or the first occupied square, which is
// included only when it holds an opponent piece
func (b *Board) slide(moves MoveSet, sq *Square, turn core.Color, rays []Coord) {
	for _, d := range rays {
		for c := sq.Position().Add(d); c.InBounds(); c = c.Add(d) {
			target := b.grid[c.Row][c.Col]
			if target.IsEmpty() {
				moves.Add(c, MoveNormal)
				continue
			}
			if target.BelongsToOpponent(turn) {
				moves.Add(c, MoveNormal)
			}
			break
		}
	}
}

// jump adds each fixed offset that lands in bounds and not on an own piece
func (b *Board) jump(moves MoveSet, sq *Square, turn core.Color, offsets []Coord) {
	for _, d := range offsets {
		c := sq.Position().Add(d)
		if c.InBounds() && !b.grid[c.Row][c.Col].BelongsToTurn(turn) {
			moves.Add(c, MoveNormal)
		}
	}
}

func (b *Board) pawnMoves(moves MoveSet, sq *Square, turn core.Color) {
	dir := b.PawnDirection(turn)
	pos := sq.Position()

	one := pos.Add(Coord{Row: dir})
	if one.InBounds() && b.grid[one.Row][one.Col].IsEmpty() {
		moves.Add(one, MoveNormal)

		two := pos.Add(Coord{Row: 2 * dir})
		if !sq.HasMoved() && two.InBounds() && b.grid[two.Row][two.Col].IsEmpty() {
			moves.Add(two, MoveNormal)
		}
	}

	b.pawnAttacks(moves, sq, turn, dir, false)
}

// pawnAttacks adds the diagonal targets. With assumeCapture both diagonals
// count regardless of occupancy, which is what the threat map needs.
func (b *Board) pawnAttacks(moves MoveSet, sq *Square, turn core.Color, dir int, assumeCapture bool) {
	pos := sq.Position()
	for _, dc := range []int{-1, 1} {
		target := pos.Add(Coord{Row: dir, Col: dc})
		if !target.InBounds() {
			continue
		}
		if assumeCapture {
			moves.Add(target, MoveNormal)
			continue
		}

		diag := b.grid[target.Row][target.Col]
		if diag.BelongsToOpponent(turn) {
			moves.Add(target, MoveNormal)
			continue
		}

		side := b.grid[pos.Row][target.Col]
		if diag.IsEmpty() && side.BelongsToOpponent(turn) && side.is(core.PiecePawn) && side.EnPassant() {
			moves.Add(target, MoveEnPassant)
		}
	}
}
