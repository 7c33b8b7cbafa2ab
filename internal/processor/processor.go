package processor

import (
	"errors"
	"fmt"

	"chessgrid/internal/board"
	"chessgrid/internal/core"
	"chessgrid/internal/game"
	"chessgrid/internal/service"
)

// Processor turns commands into service calls and service results into API
// responses
type Processor struct {
	svc *service.Service
}

func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdSelect:
		return p.handleSelect(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdLegalMoves:
		return p.handleLegalMoves(cmd)
	case CmdThreats:
		return p.handleThreats(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	player, ok := core.ParseColor(args.Player)
	if !ok {
		return p.errorResponse("player must be w or b", core.ErrInvalidRequest)
	}
	turn := core.ColorWhite
	if args.Turn != "" {
		if turn, ok = core.ParseColor(args.Turn); !ok {
			return p.errorResponse("turn must be w or b", core.ErrInvalidRequest)
		}
	}

	gameID, tokens, err := p.svc.CreateGame(player, turn, args.Position)
	if err != nil {
		return p.failure(err)
	}

	var resp core.GameResponse
	if err := p.svc.View(gameID, func(g *game.Game) {
		resp = buildGameResponse(gameID, g)
	}); err != nil {
		return p.failure(err)
	}
	resp.Tokens = &tokens

	return ProcessorResponse{Success: true, Data: resp}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	var resp core.GameResponse
	if err := p.svc.View(cmd.GameID, func(g *game.Game) {
		resp = buildGameResponse(cmd.GameID, g)
	}); err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{Success: true}
}

func (p *Processor) handleSelect(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.SelectRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	sel, turn, err := p.svc.Select(cmd.GameID, cmd.Seat, toCoord(args.Square))
	if err != nil {
		return p.failure(err)
	}

	resp := core.SelectResponse{
		Turn:       turn.String(),
		LegalMoves: toTargets(sel.Moves),
	}
	if sel.Origin != nil {
		ref := toRef(*sel.Origin)
		resp.Selected = &ref
	}
	if sel.Moved != nil {
		info := toMoveInfo(*sel.Moved)
		resp.Moved = &info
	}
	return ProcessorResponse{Success: true, Data: resp}
}

func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	if _, err := p.svc.Move(cmd.GameID, cmd.Seat, toCoord(args.From), toCoord(args.To)); err != nil {
		return p.failure(err)
	}

	return p.handleGetGame(cmd)
}

func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.UndoRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	if err := p.svc.Undo(cmd.GameID, args.Count); err != nil {
		return p.failure(err)
	}

	return p.handleGetGame(cmd)
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	var resp core.BoardResponse
	if err := p.svc.View(cmd.GameID, func(g *game.Game) {
		resp = core.BoardResponse{
			Position: g.CurrentPosition(),
			Board:    g.Board().ToASCII(),
		}
	}); err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

func (p *Processor) handleLegalMoves(cmd Command) ProcessorResponse {
	square, ok := cmd.Args.(core.SquareRef)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	pos := toCoord(square)
	if !pos.InBounds() {
		return p.errorResponse(fmt.Sprintf("square %s is off the board", pos), core.ErrInvalidRequest)
	}

	resp := core.MovesResponse{From: square}
	if err := p.svc.View(cmd.GameID, func(g *game.Game) {
		sq := g.Board().Square(pos)
		if sq.HasPiece() {
			resp.Piece = sq.Piece().String()
			resp.Color = sq.Color().String()
		}
		resp.Moves = toTargets(g.LegalMoves(pos))
	}); err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

func (p *Processor) handleThreats(cmd Command) ProcessorResponse {
	color, ok := cmd.Args.(core.Color)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	var resp core.ThreatsResponse
	if err := p.svc.View(cmd.GameID, func(g *game.Game) {
		if !color.Valid() {
			color = core.OppositeColor(g.Turn())
		}
		resp.Color = color.String()
		resp.Squares = toRefs(g.Threats(color).Sorted())
	}); err != nil {
		return p.failure(err)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

// failure maps a domain error onto an API error code
func (p *Processor) failure(err error) ProcessorResponse {
	return p.errorResponse(err.Error(), ErrorCode(err))
}

// ErrorCode returns the API error code of a service, game or board error
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return core.ErrGameNotFound
	case errors.Is(err, service.ErrNotYourTurn):
		return core.ErrNotYourTurn
	case errors.Is(err, service.ErrInvalidSeat):
		return core.ErrUnauthorized
	case errors.Is(err, game.ErrNotYourPiece):
		return core.ErrNotYourPiece
	case errors.Is(err, game.ErrIllegalMove):
		return core.ErrIllegalMove
	case errors.Is(err, game.ErrInvalidUndo), errors.Is(err, board.ErrOutOfBounds):
		return core.ErrInvalidRequest
	case errors.Is(err, board.ErrBoardSize),
		errors.Is(err, board.ErrInvalidColor),
		errors.Is(err, board.ErrInvalidPiece),
		errors.Is(err, board.ErrInvalidEncoding):
		return core.ErrInvalidPosition
	default:
		return core.ErrInternalError
	}
}

func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}
