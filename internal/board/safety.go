package board

import "chessgrid/internal/core"

// ThreatMap is the union of every destination available to the pieces of
// color. Pawns contribute both diagonals, kings skip the safety recursion.
func (b *Board) ThreatMap(color core.Color) MoveSet {
	threats := MoveSet{}
	for _, sq := range b.squaresOf(color) {
		if sq.Piece() == core.PiecePawn {
			b.pawnAttacks(threats, sq, color, b.PawnDirection(color), true)
			continue
		}
		threats.Union(b.CalculateMovements(sq, color, true))
	}
	return threats
}

// ListAllMovesFromOpponent returns the threat map of the side not to move
func (b *Board) ListAllMovesFromOpponent(turn core.Color) MoveSet {
	return b.ThreatMap(core.OppositeColor(turn))
}

// RemoveDangerousMoves drops every candidate present in the threat set
func (b *Board) RemoveDangerousMoves(candidates, threats MoveSet) MoveSet {
	safe := make(MoveSet, len(candidates))
	for c, k := range candidates {
		if !threats.Contains(c) {
			safe[c] = k
		}
	}
	return safe
}
