package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"chessgrid/internal/client/display"
	"chessgrid/internal/client/session"
)

// ErrExit is returned by Execute when the user asks to leave
var ErrExit = errors.New("exit")

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Group       string
	Handler     func(*session.Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *session.Session
	commands map[string]*Command
}

func NewRegistry(s *session.Session) *Registry {
	r := &Registry{
		session:  s,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Group:       "Utility",
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Group:       "Utility",
		Handler: func(s *session.Session, args []string) error {
			fmt.Fprintf(s.Out, "%sGoodbye!%s\n", display.Cyan, display.Reset)
			return ErrExit
		},
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line. Command errors are printed and returned.
func (r *Registry) Execute(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	out := r.session.Out
	cmd, exists := r.commands[parts[0]]
	if !exists {
		fmt.Fprintf(out, "%sUnknown command: %s%s\n", display.Red, parts[0], display.Reset)
		fmt.Fprintln(out, "Type 'help' for available commands")
		return fmt.Errorf("unknown command: %s", parts[0])
	}

	r.session.Client.SetVerbose(r.session.Verbose)

	err := cmd.Handler(r.session, parts[1:])
	if err != nil && !errors.Is(err, ErrExit) {
		fmt.Fprintf(out, "%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
	return err
}

func (r *Registry) helpHandler(s *session.Session, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(s.Out, "\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(s.Out, "Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		fmt.Fprintf(s.Out, "Usage: %s\n", cmd.Usage)
		return nil
	}

	groups := map[string][]*Command{}
	for name, cmd := range r.commands {
		if name == cmd.Name {
			groups[cmd.Group] = append(groups[cmd.Group], cmd)
		}
	}

	fmt.Fprintf(s.Out, "\n%sAvailable Commands:%s\n", display.Cyan, display.Reset)
	for _, group := range []string{"Game", "Utility"} {
		cmds := groups[group]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		fmt.Fprintf(s.Out, "\n%s%s Commands:%s\n", display.Yellow, group, display.Reset)
		for _, cmd := range cmds {
			shortPart := "    "
			if cmd.ShortName != "" {
				shortPart = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			fmt.Fprintf(s.Out, "  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	fmt.Fprintln(s.Out, "\nType 'help <command>' for detailed usage")
	fmt.Fprintln(s.Out, "Add '-v' to any command for verbose output")
	return nil
}
