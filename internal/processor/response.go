package processor

import (
	"chessgrid/internal/board"
	"chessgrid/internal/core"
	"chessgrid/internal/game"
)

// buildGameResponse snapshots a game. Call under the service read lock.
func buildGameResponse(gameID string, g *game.Game) core.GameResponse {
	resp := core.GameResponse{
		GameID:   gameID,
		Player:   g.Player().String(),
		Turn:     g.Turn().String(),
		State:    g.State().String(),
		Position: g.CurrentPosition(),
		Moves:    []core.MoveInfo{},
	}

	for _, m := range g.Moves() {
		resp.Moves = append(resp.Moves, core.MoveInfo{
			From:        toRef(m.From),
			To:          toRef(m.To),
			PlayerColor: m.Color.String(),
			Piece:       m.Piece.String(),
			Captured:    m.Captured.String(),
			Castling:    m.Castling,
			EnPassant:   m.EnPassant,
		})
	}

	if origin, ok := g.Selected(); ok {
		ref := toRef(origin)
		resp.Selected = &ref
		resp.LegalMoves = toTargets(g.Highlights())
	}

	if last := g.LastResult(); last != nil {
		info := toMoveInfo(*last)
		resp.LastMove = &info
	}

	return resp
}

func toMoveInfo(res board.MoveResult) core.MoveInfo {
	return core.MoveInfo{
		From:        toRef(res.From),
		To:          toRef(res.To),
		PlayerColor: res.Color.String(),
		Piece:       res.Piece.String(),
		Captured:    res.Captured.String(),
		Castling:    res.Castling,
		EnPassant:   res.EnPassant,
	}
}

func toCoord(ref core.SquareRef) board.Coord {
	return board.Coord{Row: ref.Row, Col: ref.Col}
}

func toRef(c board.Coord) core.SquareRef {
	return core.SquareRef{Row: c.Row, Col: c.Col}
}

func toRefs(coords []board.Coord) []core.SquareRef {
	refs := make([]core.SquareRef, 0, len(coords))
	for _, c := range coords {
		refs = append(refs, toRef(c))
	}
	return refs
}

// toTargets lists a move set row-major with each destination's kind
func toTargets(moves board.MoveSet) []core.MoveTarget {
	targets := make([]core.MoveTarget, 0, len(moves))
	for _, c := range moves.Sorted() {
		targets = append(targets, core.MoveTarget{
			Row:  c.Row,
			Col:  c.Col,
			Kind: moves[c].String(),
		})
	}
	return targets
}
