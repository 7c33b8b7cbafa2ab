package commands

import (
	"fmt"
	"strings"
	"time"

	"chessgrid/internal/client/display"
	"chessgrid/internal/client/session"
)

func (r *Registry) registerDebugCommands() {
	for _, cmd := range []*Command{
		{Name: "health", ShortName: ".", Description: "Check server health", Usage: "health", Handler: healthHandler},
		{Name: "url", ShortName: "/", Description: "Show or set API base URL", Usage: "url [apiUrl]", Handler: urlHandler},
		{Name: "raw", ShortName: ":", Description: "Send raw API request with the active seat token", Usage: "raw <method> <path> [json-body]", Handler: rawRequestHandler},
		{Name: "clear", ShortName: "-", Description: "Clear screen", Usage: "clear", Handler: clearHandler},
	} {
		cmd.Group = "Utility"
		r.Register(cmd)
	}
}

func healthHandler(s *session.Session, args []string) error {
	resp, err := s.Client.Health()
	if err != nil {
		return err
	}

	fmt.Fprintf(s.Out, "%sServer Health:%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(s.Out, "  Status:  %s\n", resp.Status)
	fmt.Fprintf(s.Out, "  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(s.Out, "  Games:   %d\n", resp.Games)
	if resp.Storage != "" {
		fmt.Fprintf(s.Out, "  Storage: %s\n", resp.Storage)
	}
	return nil
}

func urlHandler(s *session.Session, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(s.Out, "Current API URL: %s\n", s.APIBaseURL)
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	s.APIBaseURL = url
	s.Client.SetBaseURL(url)

	fmt.Fprintf(s.Out, "%sAPI URL set to: %s%s\n", display.Cyan, url, display.Reset)
	return nil
}

func rawRequestHandler(s *session.Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}

	body := ""
	if len(args) > 2 {
		body = strings.Join(args[2:], " ")
	}
	return s.Client.RawRequest(strings.ToUpper(args[0]), args[1], s.Token(), body)
}

func clearHandler(s *session.Session, args []string) error {
	fmt.Fprint(s.Out, "\033[H\033[2J")
	return nil
}
