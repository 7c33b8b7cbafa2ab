package display

import (
	"fmt"
	"io"
	"strings"

	"chessgrid/internal/core"
)

// RenderBoard colors the server's ASCII board: indices cyan, white pieces
// blue, black pieces red. Marked squares show as a yellow '*' when empty and
// with a yellow piece letter when occupied.
func RenderBoard(w io.Writer, asciiBoard string, marks []core.SquareRef) {
	marked := make(map[core.SquareRef]bool, len(marks))
	for _, m := range marks {
		marked[m] = true
	}

	lines := strings.Split(asciiBoard, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Header and footer carry column indices only
		if i == 0 || i == len(lines)-1 {
			fmt.Fprintf(w, "%s%s%s\n", Cyan, line, Reset)
			continue
		}

		row := i - 1
		for pos, char := range line {
			col := (pos - 2) / 2
			onCell := pos >= 2 && pos%2 == 0 && col < 8
			switch {
			case onCell && marked[core.SquareRef{Row: row, Col: col}]:
				if char == '.' {
					char = '*'
				}
				fmt.Fprintf(w, "%s%c%s", Yellow, char, Reset)
			case char >= '0' && char <= '7':
				fmt.Fprintf(w, "%s%c%s", Cyan, char, Reset)
			case char >= 'A' && char <= 'Z':
				fmt.Fprintf(w, "%s%c%s", Blue, char, Reset)
			case char >= 'a' && char <= 'z':
				fmt.Fprintf(w, "%s%c%s", Red, char, Reset)
			default:
				fmt.Fprintf(w, "%c", char)
			}
		}
		fmt.Fprintln(w)
	}
}
