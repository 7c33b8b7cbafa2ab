package commands

import (
	"fmt"
	"strconv"

	"chessgrid/internal/cli"
	"chessgrid/internal/client/display"
	"chessgrid/internal/client/session"
	"chessgrid/internal/core"

	"github.com/google/uuid"
)

func (r *Registry) registerGameCommands() {
	for _, cmd := range []*Command{
		{Name: "new", ShortName: "n", Description: "Create a game and hold both seats", Usage: "new [w|b]", Handler: newGameHandler},
		{Name: "join", ShortName: "j", Description: "Join a game, optionally with a seat token", Usage: "join <gameId> [w|b <token>]", Handler: joinGameHandler},
		{Name: "seat", ShortName: "t", Description: "Switch the seat used for select and move", Usage: "seat <w|b>", Handler: seatHandler},
		{Name: "select", ShortName: "c", Description: "Click a square", Usage: "select <rc>", Handler: selectHandler},
		{Name: "move", ShortName: "m", Description: "Make a move", Usage: "move <rc> <rc>", Handler: moveHandler},
		{Name: "moves", ShortName: "l", Description: "List legal moves of a square", Usage: "moves <rc>", Handler: legalMovesHandler},
		{Name: "threats", ShortName: "a", Description: "Show squares attacked by a color", Usage: "threats [w|b]", Handler: threatsHandler},
		{Name: "undo", ShortName: "u", Description: "Undo moves", Usage: "undo [count]", Handler: undoHandler},
		{Name: "show", ShortName: "h", Description: "Show board and game state", Usage: "show", Handler: showBoardHandler},
		{Name: "state", ShortName: "s", Description: "Show raw game JSON", Usage: "state", Handler: gameStateHandler},
		{Name: "delete", ShortName: "d", Description: "Delete a game", Usage: "delete [gameId]", Handler: deleteGameHandler},
		{Name: "poll", ShortName: "p", Description: "Long-poll for game updates", Usage: "poll", Handler: pollHandler},
	} {
		cmd.Group = "Game"
		r.Register(cmd)
	}
}

func requireGame(s *session.Session) error {
	if s.CurrentGame == "" {
		return fmt.Errorf("no current game, use 'new' or 'join'")
	}
	return nil
}

func requireSeat(s *session.Session) error {
	if err := requireGame(s); err != nil {
		return err
	}
	if s.Token() == "" {
		return fmt.Errorf("no seat token held for this game, use 'join <gameId> <w|b> <token>'")
	}
	return nil
}

func parseRef(arg string) (core.SquareRef, error) {
	pos, err := cli.ParseSquare(arg)
	if err != nil {
		return core.SquareRef{}, err
	}
	return core.SquareRef{Row: pos.Row, Col: pos.Col}, nil
}

func newGameHandler(s *session.Session, args []string) error {
	player := "w"
	if len(args) > 0 {
		c, ok := core.ParseColor(args[0])
		if !ok {
			return fmt.Errorf("usage: new [w|b]")
		}
		player = c.String()
	}

	resp, err := s.Client.CreateGame(core.CreateGameRequest{Player: player})
	if err != nil {
		return err
	}

	s.SetGame(resp.GameID)
	if resp.Tokens != nil {
		s.Tokens["w"] = resp.Tokens.White
		s.Tokens["b"] = resp.Tokens.Black
	}
	s.Seat = resp.Turn
	s.SetState(resp)

	fmt.Fprintf(s.Out, "%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	fmt.Fprintf(s.Out, "White token: %s\n", resp.Tokens.White)
	fmt.Fprintf(s.Out, "Black token: %s\n", resp.Tokens.Black)
	return showBoard(s, nil)
}

func joinGameHandler(s *session.Session, args []string) error {
	if len(args) != 1 && len(args) != 3 {
		return fmt.Errorf("usage: join <gameId> [w|b <token>]")
	}
	if _, err := uuid.Parse(args[0]); err != nil {
		return fmt.Errorf("invalid game ID: %w", err)
	}

	resp, err := s.Client.GetGame(args[0])
	if err != nil {
		return err
	}
	s.SetGame(args[0])
	s.SetState(resp)

	if len(args) == 3 {
		c, ok := core.ParseColor(args[1])
		if !ok {
			return fmt.Errorf("seat must be w or b")
		}
		s.Tokens[c.String()] = args[2]
		s.Seat = c.String()
	}

	fmt.Fprintf(s.Out, "%sJoined game: %s%s\n", display.Green, args[0], display.Reset)
	return showBoard(s, nil)
}

func seatHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: seat <w|b>")
	}
	c, ok := core.ParseColor(args[0])
	if !ok {
		return fmt.Errorf("seat must be w or b")
	}
	if s.Tokens[c.String()] == "" {
		return fmt.Errorf("no token held for %s", c.Name())
	}
	s.Seat = c.String()
	fmt.Fprintf(s.Out, "Playing as %s\n", display.ColorForTurn(s.Seat))
	return nil
}

func selectHandler(s *session.Session, args []string) error {
	if err := requireSeat(s); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: select <rc>")
	}
	sq, err := parseRef(args[0])
	if err != nil {
		return err
	}

	resp, err := s.Client.Select(s.CurrentGame, s.Token(), sq)
	if err != nil {
		return err
	}

	if resp.Moved != nil {
		fmt.Fprintf(s.Out, "Moved %s %v -> %v\n", resp.Moved.Piece, resp.Moved.From, resp.Moved.To)
		followTurn(s, resp.Turn)
		return refresh(s, nil)
	}
	if resp.Selected == nil {
		fmt.Fprintln(s.Out, "Selection cleared")
		return refresh(s, nil)
	}

	marks := make([]core.SquareRef, 0, len(resp.LegalMoves))
	for _, m := range resp.LegalMoves {
		marks = append(marks, core.SquareRef{Row: m.Row, Col: m.Col})
	}
	fmt.Fprintf(s.Out, "Selected %v, %d legal move(s)\n", *resp.Selected, len(marks))
	return refresh(s, marks)
}

func moveHandler(s *session.Session, args []string) error {
	if err := requireSeat(s); err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: move <rc> <rc>")
	}
	from, err := parseRef(args[0])
	if err != nil {
		return err
	}
	to, err := parseRef(args[1])
	if err != nil {
		return err
	}

	resp, err := s.Client.MakeMove(s.CurrentGame, s.Token(), from, to)
	if err != nil {
		return err
	}
	s.SetState(resp)
	followTurn(s, resp.Turn)
	return showBoard(s, nil)
}

// followTurn switches to the seat to move when both seats are held locally
func followTurn(s *session.Session, turn string) {
	if s.Tokens[turn] != "" {
		s.Seat = turn
	}
}

func legalMovesHandler(s *session.Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: moves <rc>")
	}
	sq, err := parseRef(args[0])
	if err != nil {
		return err
	}

	resp, err := s.Client.LegalMoves(s.CurrentGame, sq)
	if err != nil {
		return err
	}

	marks := make([]core.SquareRef, 0, len(resp.Moves))
	for _, m := range resp.Moves {
		marks = append(marks, core.SquareRef{Row: m.Row, Col: m.Col})
		fmt.Fprintf(s.Out, "  (%d,%d) %s\n", m.Row, m.Col, m.Kind)
	}
	fmt.Fprintf(s.Out, "%d legal move(s)\n", len(marks))
	return showBoard(s, marks)
}

func threatsHandler(s *session.Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}
	color := ""
	if len(args) > 0 {
		c, ok := core.ParseColor(args[0])
		if !ok {
			return fmt.Errorf("usage: threats [w|b]")
		}
		color = c.String()
	}

	resp, err := s.Client.Threats(s.CurrentGame, color)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "%s attacks %d square(s)\n", display.ColorForTurn(resp.Color), len(resp.Squares))
	return showBoard(s, resp.Squares)
}

func undoHandler(s *session.Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("usage: undo [count]")
		}
		count = n
	}

	resp, err := s.Client.UndoMoves(s.CurrentGame, count)
	if err != nil {
		return err
	}
	s.SetState(resp)
	followTurn(s, resp.Turn)
	return showBoard(s, nil)
}

func showBoardHandler(s *session.Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}
	return refresh(s, nil)
}

func gameStateHandler(s *session.Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}
	resp, err := s.Client.GetGame(s.CurrentGame)
	if err != nil {
		return err
	}
	s.SetState(resp)
	display.PrettyPrintJSON(s.Out, resp)
	return nil
}

func deleteGameHandler(s *session.Session, args []string) error {
	gameID := s.CurrentGame
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return fmt.Errorf("usage: delete [gameId]")
	}

	if err := s.Client.DeleteGame(gameID); err != nil {
		return err
	}
	if gameID == s.CurrentGame {
		s.SetGame("")
	}
	fmt.Fprintf(s.Out, "%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func pollHandler(s *session.Session, args []string) error {
	if err := requireGame(s); err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "Waiting for a change from move count %d...\n", s.LastMoveCount)

	resp, err := s.Client.PollGame(s.CurrentGame, s.LastMoveCount)
	if err != nil {
		return err
	}
	if len(resp.Moves) == s.LastMoveCount {
		fmt.Fprintln(s.Out, "No change before the poll timed out")
	}
	s.SetState(resp)
	followTurn(s, resp.Turn)
	return showBoard(s, nil)
}

// refresh fetches the game state and draws the board
func refresh(s *session.Session, marks []core.SquareRef) error {
	resp, err := s.Client.GetGame(s.CurrentGame)
	if err != nil {
		return err
	}
	s.SetState(resp)
	return showBoard(s, marks)
}

func showBoard(s *session.Session, marks []core.SquareRef) error {
	board, err := s.Client.GetBoard(s.CurrentGame)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out)
	display.RenderBoard(s.Out, board.Board, marks)
	if s.State != nil {
		fmt.Fprintf(s.Out, "\nTurn: %s, moves: %d\n", display.ColorForTurn(s.State.Turn), len(s.State.Moves))
		if last := s.State.LastMove; last != nil {
			fmt.Fprintf(s.Out, "Last move: %s %s %v -> %v\n", last.PlayerColor, last.Piece, last.From, last.To)
		}
	}
	return nil
}
