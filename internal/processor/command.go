package processor

import (
	"chessgrid/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdDeleteGame
	CmdSelect
	CmdMakeMove
	CmdUndoMove
	CmdGetBoard
	CmdLegalMoves
	CmdThreats
)

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string
	Seat   core.Color // seat of the caller, from its token
	Args   any
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewSelectCommand(gameID string, seat core.Color, req core.SelectRequest) Command {
	return Command{
		Type:   CmdSelect,
		GameID: gameID,
		Seat:   seat,
		Args:   req,
	}
}

func NewMakeMoveCommand(gameID string, seat core.Color, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		GameID: gameID,
		Seat:   seat,
		Args:   req,
	}
}

func NewUndoMoveCommand(gameID string, req core.UndoRequest) Command {
	return Command{
		Type:   CmdUndoMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}

func NewLegalMovesCommand(gameID string, square core.SquareRef) Command {
	return Command{
		Type:   CmdLegalMoves,
		GameID: gameID,
		Args:   square,
	}
}

// NewThreatsCommand asks for the threat map of color, ColorNone means the
// side not to move
func NewThreatsCommand(gameID string, color core.Color) Command {
	return Command{
		Type:   CmdThreats,
		GameID: gameID,
		Args:   color,
	}
}
