package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"chessgrid/internal/board"
	"chessgrid/internal/core"
	"chessgrid/internal/game"

	"github.com/chzyer/readline"
	"github.com/go-playground/validator/v10"
)

// LineReader is the prompt-driven input the loop reads commands from,
// satisfied by *readline.Instance
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Handler plays a local game, both sides taking turns at one terminal
type Handler struct {
	view     *CLI
	game     *game.Game
	player   core.Color
	validate *validator.Validate
}

func NewHandler(view *CLI, player core.Color) *Handler {
	if !player.Valid() {
		player = core.ColorWhite
	}
	g, _ := game.New(player, core.ColorWhite, nil)
	return &Handler{
		view:     view,
		game:     g,
		player:   player,
		validate: validator.New(),
	}
}

func (h *Handler) Game() *game.Game {
	return h.game
}

// Run reads commands until quit or end of input
func (h *Handler) Run(rl LineReader) error {
	h.view.DisplayGame(h.game)
	for {
		rl.SetPrompt(h.prompt())

		line, err := rl.Readline()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// Interrupt clears the line and keeps the session
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			return err
		}

		if !h.ProcessCommand(ParseCommand(line)) {
			return nil
		}
	}
}

func (h *Handler) prompt() string {
	return fmt.Sprintf("[%s]> ", h.game.Turn())
}

// ProcessCommand executes one command, false means exit
func (h *Handler) ProcessCommand(cmd *Command) bool {
	switch cmd.Type {
	case CmdQuit:
		return false

	case CmdNone:

	case CmdNew:
		player := h.player
		if len(cmd.Args) > 0 {
			c, ok := core.ParseColor(cmd.Args[0])
			if !ok {
				h.view.ShowMessage("Usage: new [w|b]")
				return true
			}
			player = c
		}
		h.player = player
		h.game, _ = game.New(player, core.ColorWhite, nil)
		h.view.ShowMessage(fmt.Sprintf("New game, seen from %s.", player.Name()))
		h.view.DisplayGame(h.game)

	case CmdLoad:
		if len(cmd.Args) != 1 {
			h.view.ShowMessage("Usage: load <file.json>")
			return true
		}
		if err := h.load(cmd.Args[0]); err != nil {
			h.view.ShowError(err)
		}
		h.view.DisplayGame(h.game)

	case CmdSelect:
		if len(cmd.Args) != 1 {
			h.view.ShowMessage("Usage: select <rc>")
			return true
		}
		pos, err := ParseSquare(cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		sel, err := h.game.SelectSquare(pos)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		if sel.Moved != nil {
			h.afterMove(*sel.Moved)
			return true
		}
		if sel.Origin == nil {
			h.view.ShowMessage("Selection cleared.")
		} else if len(sel.Moves) == 0 {
			h.view.ShowMessage(fmt.Sprintf("%s has no legal moves.", *sel.Origin))
		}
		h.view.DisplayGame(h.game)

	case CmdMove:
		if len(cmd.Args) != 2 {
			h.view.ShowMessage("Usage: move <rc> <rc>")
			return true
		}
		from, err := ParseSquare(cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		to, err := ParseSquare(cmd.Args[1])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		res, err := h.game.Move(from, to)
		if err != nil {
			h.view.ShowError(fmt.Errorf("invalid move: %w", err))
			return true
		}
		h.afterMove(res)

	case CmdThreats:
		color := core.OppositeColor(h.game.Turn())
		if len(cmd.Args) > 0 {
			c, ok := core.ParseColor(cmd.Args[0])
			if !ok {
				h.view.ShowMessage("Usage: threats [w|b]")
				return true
			}
			color = c
		}
		threats := h.game.Threats(color)
		h.view.ShowMessage(fmt.Sprintf("%s attacks %d squares.", color.Name(), len(threats)))
		h.view.DisplayBoard(h.game.Board(), nil, threats)

	case CmdUndo:
		count := 1
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil || n < 1 {
				h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
				return true
			}
			count = n
		}
		if err := h.game.UndoMoves(count); err != nil {
			h.view.ShowError(err)
			return true
		}
		if count == 1 {
			h.view.ShowMessage("Move undone")
		} else {
			h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
		}
		h.view.DisplayGame(h.game)

	case CmdExport:
		data, err := json.Marshal(h.export())
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(string(data))

	case CmdHistory:
		h.view.ShowGameHistory(h.game)

	case CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme := ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		h.view.DisplayGame(h.game)

	case CmdHelp:
		h.view.ShowHelp()

	default:
		h.view.ShowMessage(fmt.Sprintf("Unknown command %q, type 'help'.", strings.TrimSpace(cmd.Raw)))
	}

	return true
}

// afterMove hands the turn over and redraws
func (h *Handler) afterMove(res board.MoveResult) {
	h.view.ShowMove(res)
	h.game.NextTurn()
	h.view.DisplayGame(h.game)
}

func (h *Handler) export() core.CreateGameRequest {
	return core.CreateGameRequest{
		Player:   h.game.Player().String(),
		Turn:     h.game.Turn().String(),
		Position: h.game.CurrentPosition(),
	}
}

// load replaces the game with a position file in the export format. A
// malformed position still starts a game from the standard arrangement.
func (h *Handler) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read position: %w", err)
	}

	var req core.CreateGameRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse position: %w", err)
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid position file: %s failed %s", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid position file: %w", err)
	}

	player, _ := core.ParseColor(req.Player)
	turn := core.ColorWhite
	if req.Turn != "" {
		turn, _ = core.ParseColor(req.Turn)
	}

	g, err := game.New(player, turn, req.Position)
	h.game = g
	h.player = player
	return err
}
