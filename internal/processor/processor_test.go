package processor

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"chessgrid/internal/board"
	"chessgrid/internal/core"
	"chessgrid/internal/game"
	"chessgrid/internal/service"
)

func newProcessor(t *testing.T) *Processor {
	t.Helper()
	svc := service.New(nil, []byte("processor-test-secret-0123456789"), time.Hour)
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return New(svc)
}

func createGame(t *testing.T, p *Processor, req core.CreateGameRequest) core.GameResponse {
	t.Helper()
	resp := p.Execute(NewCreateGameCommand(req))
	if !resp.Success {
		t.Fatalf("create game failed: %+v", resp.Error)
	}
	return resp.Data.(core.GameResponse)
}

func TestCreateAndGetGame(t *testing.T) {
	p := newProcessor(t)
	created := createGame(t, p, core.CreateGameRequest{Player: "b"})

	if created.Tokens == nil || created.Tokens.White == "" || created.Tokens.Black == "" {
		t.Fatal("creation should return both seat tokens")
	}
	if created.Player != "b" || created.Turn != "w" || created.State != "ongoing" {
		t.Errorf("created = %+v", created)
	}
	if created.Position[7][3] != "bk*" {
		t.Errorf("black orientation not applied: %v", created.Position[7])
	}

	resp := p.Execute(NewGetGameCommand(created.GameID))
	if !resp.Success {
		t.Fatalf("get game: %+v", resp.Error)
	}
	if got := resp.Data.(core.GameResponse); got.Tokens != nil {
		t.Error("tokens must only be returned on creation")
	}
}

func TestCreateGameInvalidPosition(t *testing.T) {
	p := newProcessor(t)
	position := make([][]string, 8)
	for i := range position {
		position[i] = make([]string, 8)
	}
	position[4][3] = "gp"

	resp := p.Execute(NewCreateGameCommand(core.CreateGameRequest{Player: "w", Position: position}))
	if resp.Success {
		t.Fatal("malformed position accepted")
	}
	if resp.Error.Code != core.ErrInvalidPosition {
		t.Errorf("code = %s, want %s", resp.Error.Code, core.ErrInvalidPosition)
	}
}

func TestMoveCommands(t *testing.T) {
	p := newProcessor(t)
	created := createGame(t, p, core.CreateGameRequest{Player: "w"})
	id := created.GameID

	move := core.MoveRequest{From: core.SquareRef{Row: 6, Col: 4}, To: core.SquareRef{Row: 4, Col: 4}}

	resp := p.Execute(NewMakeMoveCommand(id, core.ColorBlack, move))
	if resp.Success || resp.Error.Code != core.ErrNotYourTurn {
		t.Fatalf("black seat moving on white's turn: %+v", resp.Error)
	}

	resp = p.Execute(NewMakeMoveCommand(id, core.ColorWhite, move))
	if !resp.Success {
		t.Fatalf("move: %+v", resp.Error)
	}
	state := resp.Data.(core.GameResponse)
	if state.Turn != "b" || len(state.Moves) != 1 || state.Position[4][4] != "wp^" {
		t.Fatalf("after move = %+v", state)
	}
	if state.LastMove == nil || state.LastMove.Piece != "p" {
		t.Errorf("last move = %+v", state.LastMove)
	}

	illegal := core.MoveRequest{From: core.SquareRef{Row: 1, Col: 0}, To: core.SquareRef{Row: 4, Col: 0}}
	resp = p.Execute(NewMakeMoveCommand(id, core.ColorBlack, illegal))
	if resp.Success || resp.Error.Code != core.ErrIllegalMove {
		t.Fatalf("illegal move: %+v", resp.Error)
	}

	foreign := core.MoveRequest{From: core.SquareRef{Row: 6, Col: 0}, To: core.SquareRef{Row: 5, Col: 0}}
	resp = p.Execute(NewMakeMoveCommand(id, core.ColorBlack, foreign))
	if resp.Success || resp.Error.Code != core.ErrNotYourPiece {
		t.Fatalf("moving a white pawn from the black seat: %+v", resp.Error)
	}

	resp = p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 1}))
	if !resp.Success {
		t.Fatalf("undo: %+v", resp.Error)
	}
	if state := resp.Data.(core.GameResponse); state.Turn != "w" || len(state.Moves) != 0 {
		t.Fatalf("after undo = %+v", state)
	}

	resp = p.Execute(NewUndoMoveCommand(id, core.UndoRequest{Count: 1}))
	if resp.Success || resp.Error.Code != core.ErrInvalidRequest {
		t.Fatalf("undo past start: %+v", resp.Error)
	}
}

func TestSelectCommand(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{Player: "w"}).GameID

	resp := p.Execute(NewSelectCommand(id, core.ColorWhite, core.SelectRequest{Square: core.SquareRef{Row: 7, Col: 6}}))
	if !resp.Success {
		t.Fatalf("select: %+v", resp.Error)
	}
	sel := resp.Data.(core.SelectResponse)
	if sel.Selected == nil || len(sel.LegalMoves) != 2 || sel.Turn != "w" {
		t.Fatalf("selection = %+v", sel)
	}
	if sel.LegalMoves[0] != (core.MoveTarget{Row: 5, Col: 5, Kind: "normal"}) {
		t.Errorf("first target = %+v", sel.LegalMoves[0])
	}

	got := p.Execute(NewGetGameCommand(id)).Data.(core.GameResponse)
	if got.Selected == nil || len(got.LegalMoves) != 2 {
		t.Errorf("game state should expose the selection: %+v", got)
	}

	resp = p.Execute(NewSelectCommand(id, core.ColorWhite, core.SelectRequest{Square: core.SquareRef{Row: 5, Col: 7}}))
	sel = resp.Data.(core.SelectResponse)
	if sel.Moved == nil || sel.Turn != "b" {
		t.Fatalf("click move = %+v", sel)
	}

	resp = p.Execute(NewSelectCommand("00000000-0000-0000-0000-000000000000", core.ColorWhite, core.SelectRequest{}))
	if resp.Success || resp.Error.Code != core.ErrGameNotFound {
		t.Errorf("select in a missing game = %+v", resp.Error)
	}
}

func TestLegalMovesAndThreatsCommands(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{Player: "w"}).GameID

	resp := p.Execute(NewLegalMovesCommand(id, core.SquareRef{Row: 6, Col: 0}))
	moves := resp.Data.(core.MovesResponse)
	if moves.Piece != "p" || moves.Color != "w" || len(moves.Moves) != 2 {
		t.Fatalf("moves = %+v", moves)
	}

	resp = p.Execute(NewLegalMovesCommand(id, core.SquareRef{Row: 1, Col: 0}))
	if moves := resp.Data.(core.MovesResponse); len(moves.Moves) != 0 {
		t.Fatalf("black pawn on white's turn = %+v", moves)
	}

	resp = p.Execute(NewThreatsCommand(id, core.ColorNone))
	threats := resp.Data.(core.ThreatsResponse)
	if threats.Color != "b" || len(threats.Squares) == 0 {
		t.Fatalf("threats = %+v", threats)
	}

	resp = p.Execute(NewGetBoardCommand(id))
	if b := resp.Data.(core.BoardResponse); b.Board == "" || len(b.Position) != 8 {
		t.Fatalf("board = %+v", b)
	}
}

func TestDeleteGameCommand(t *testing.T) {
	p := newProcessor(t)
	id := createGame(t, p, core.CreateGameRequest{Player: "w"}).GameID

	if resp := p.Execute(NewDeleteGameCommand(id)); !resp.Success {
		t.Fatalf("delete: %+v", resp.Error)
	}
	resp := p.Execute(NewGetGameCommand(id))
	if resp.Success || resp.Error.Code != core.ErrGameNotFound {
		t.Fatalf("deleted game still served: %+v", resp)
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrap: %w", service.ErrGameNotFound), core.ErrGameNotFound},
		{service.ErrInvalidSeat, core.ErrUnauthorized},
		{fmt.Errorf("load: %w", board.ErrInvalidPiece), core.ErrInvalidPosition},
		{game.ErrInvalidUndo, core.ErrInvalidRequest},
		{board.ErrCastlingInvariant, core.ErrInternalError},
		{errors.New("boom"), core.ErrInternalError},
	}
	for _, tt := range tests {
		if got := ErrorCode(tt.err); got != tt.want {
			t.Errorf("ErrorCode(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
