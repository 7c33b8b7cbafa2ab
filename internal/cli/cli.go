package cli

import (
	"fmt"
	"io"
	"strings"

	"chessgrid/internal/board"
	"chessgrid/internal/core"
	"chessgrid/internal/game"

	"golang.org/x/term"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdLoad
	CmdSelect
	CmdMove
	CmdThreats
	CmdUndo
	CmdExport
	CmdHistory
	CmdColor
	CmdHelp
	CmdQuit
	CmdUnknown
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg  string
	darkBg   string
	selectBg string
	markBg   string
	white    string
	black    string
	reset    string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg:  "\033[48;5;230m", // Beige
		darkBg:   "\033[48;5;94m",  // Brown
		selectBg: "\033[48;5;220m",
		markBg:   "\033[48;5;110m",
		white:    "\033[97m",
		black:    "\033[30m",
		reset:    "\033[0m",
	},
	ThemeGreen: {
		lightBg:  "\033[48;5;157m", // Light green
		darkBg:   "\033[48;5;22m",  // Dark green
		selectBg: "\033[48;5;220m",
		markBg:   "\033[48;5;110m",
		white:    "\033[97m",
		black:    "\033[30m",
		reset:    "\033[0m",
	},
	ThemeGray: {
		lightBg:  "\033[48;5;251m", // Light gray
		darkBg:   "\033[48;5;240m", // Dark gray
		selectBg: "\033[48;5;220m",
		markBg:   "\033[48;5;174m",
		white:    "\033[97m",
		black:    "\033[30m",
		reset:    "\033[0m",
	},
}

// DefaultTheme picks brown on a terminal and plain text otherwise
func DefaultTheme(fd int) ColorTheme {
	if term.IsTerminal(fd) {
		return ThemeBrown
	}
	return ThemeOff
}

// CLI is the terminal view of a game
type CLI struct {
	output io.Writer
	theme  ColorTheme
}

func New(output io.Writer) *CLI {
	return &CLI{
		output: output,
		theme:  ThemeOff,
	}
}

func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	args := parts[1:]
	switch strings.ToLower(parts[0]) {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "load":
		return &Command{Type: CmdLoad, Args: args, Raw: input}
	case "select", "s":
		return &Command{Type: CmdSelect, Args: args}
	case "move", "m":
		return &Command{Type: CmdMove, Args: args}
	case "threats", "t":
		return &Command{Type: CmdThreats, Args: args}
	case "undo", "u":
		return &Command{Type: CmdUndo, Args: args}
	case "export":
		return &Command{Type: CmdExport}
	case "history":
		return &Command{Type: CmdHistory}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit", "q":
		return &Command{Type: CmdQuit}
	default:
		return &Command{Type: CmdUnknown, Raw: input}
	}
}

// ParseSquare reads a square as two digits "rc" or as "r,c"
func ParseSquare(s string) (board.Coord, error) {
	s = strings.TrimSpace(s)
	var r, c int
	switch {
	case len(s) == 2:
		r, c = int(s[0])-'0', int(s[1])-'0'
	case len(s) == 3 && s[1] == ',':
		r, c = int(s[0])-'0', int(s[2])-'0'
	default:
		return board.Coord{}, fmt.Errorf("square %q must be two digits, row then column", s)
	}
	pos := board.Coord{Row: r, Col: c}
	if !pos.InBounds() {
		return board.Coord{}, fmt.Errorf("square %q is off the board", s)
	}
	return pos, nil
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// DisplayBoard draws the board with the selected square and marked
// destinations. Without colors the selection shows as '<', marked empty
// squares as '*' and marked pieces with a trailing '*'.
func (c *CLI) DisplayBoard(b *board.Board, selected *board.Coord, marks board.MoveSet) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  0 1 2 3 4 5 6 7\n")
	for r := 0; r < board.Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", r))
		for col := 0; col < board.Size; col++ {
			pos := board.Coord{Row: r, Col: col}
			sq := b.Square(pos)
			isSelected := selected != nil && *selected == pos
			isMarked := marks.Contains(pos)

			if c.theme == ThemeOff {
				glyph, marker := byte('.'), byte(' ')
				switch {
				case sq.IsEmpty() && isMarked:
					glyph = '*'
				case isSelected:
					glyph, marker = board.Glyph(sq), '<'
				case isMarked:
					glyph, marker = board.Glyph(sq), '*'
				case sq.HasPiece():
					glyph = board.Glyph(sq)
				}
				sb.WriteByte(glyph)
				sb.WriteByte(marker)
				continue
			}

			bg := theme.lightBg
			switch {
			case isSelected:
				bg = theme.selectBg
			case isMarked:
				bg = theme.markBg
			case sq.IsDarkSquare():
				bg = theme.darkBg
			}
			if sq.IsEmpty() {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
				continue
			}
			fg := theme.black
			if sq.Color() == core.ColorWhite {
				fg = theme.white
			}
			sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, fg, board.Glyph(sq), theme.reset))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r))
	}
	sb.WriteString("  0 1 2 3 4 5 6 7\n")

	c.ShowMessage(sb.String())
}

// DisplayGame draws the game with its current selection
func (c *CLI) DisplayGame(g *game.Game) {
	origin, ok := g.Selected()
	if !ok {
		c.DisplayBoard(g.Board(), nil, nil)
		return
	}
	c.DisplayBoard(g.Board(), &origin, g.Highlights())
}

func (c *CLI) ShowMove(res board.MoveResult) {
	msg := fmt.Sprintf("%s %s %s -> %s", res.Color.Name(), res.Piece.Name(), res.From, res.To)
	switch {
	case res.Castling:
		msg += fmt.Sprintf(" (castling, rook %s -> %s)", res.RookFrom, res.RookTo)
	case res.EnPassant:
		msg += fmt.Sprintf(" (en passant, takes %s)", res.CaptureAt)
	case res.Captured != core.PieceNone:
		msg += fmt.Sprintf(" (takes %s)", res.Captured.Name())
	}
	c.ShowMessage(msg)
}

func (c *CLI) ShowGameHistory(g *game.Game) {
	moves := g.Moves()
	if len(moves) == 0 {
		c.ShowMessage("No moves yet.")
	}
	for i, m := range moves {
		line := fmt.Sprintf("%3d. %s %s %s -> %s", i+1, m.Color, m.Piece, m.From, m.To)
		switch {
		case m.Castling:
			line += " castling"
		case m.EnPassant:
			line += " en-passant"
		case m.Captured != core.PieceNone:
			line += " x" + m.Captured.String()
		}
		c.ShowMessage(line)
	}
	c.ShowMessage(fmt.Sprintf("Turn: %s, state: %s", g.Turn().Name(), g.State()))
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new [w|b]          - Start a new game seen from white or black
  load <file.json>   - Load {"player","turn","position"} from a file
  select <rc>        - Click a square (e.g. select 64); a second click on
                       a highlighted square moves the selected piece
  move <rc> <rc>     - Move directly (e.g. move 64 44)
  threats [w|b]      - Mark the squares a color attacks (default: opponent)
  undo [count]       - Undo last move(s), default 1
  export             - Print the position as JSON, loadable with 'load'
  history            - Show the move list
  color <theme>      - Set board color theme (off|brown|green|gray)
  help/?             - Show this help message
  quit/exit          - Exit the program`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to chessgrid!")
	c.ShowMessage("Squares are row then column, 0-7 from the top left. Type 'help' for commands.")
	c.ShowMessage("")
}
