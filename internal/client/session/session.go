package session

import (
	"io"

	"chessgrid/internal/client/api"
	"chessgrid/internal/core"
)

// Session is the state of the debug client between commands
type Session struct {
	APIBaseURL  string
	Client      *api.Client
	Out         io.Writer
	Verbose     bool
	CurrentGame string
	// Seat tokens held for the current game, keyed by "w" and "b"
	Tokens map[string]string
	// Seat used for select and move, "" when no token is held
	Seat          string
	LastMoveCount int
	State         *core.GameResponse
}

func New(baseURL string, out io.Writer) *Session {
	client := api.New(baseURL)
	client.Out = out
	return &Session{
		APIBaseURL:    baseURL,
		Client:        client,
		Out:           out,
		Tokens:        map[string]string{},
		LastMoveCount: -1,
	}
}

// SetGame switches to a game and forgets the tokens of the previous one
func (s *Session) SetGame(gameID string) {
	if gameID != s.CurrentGame {
		s.Tokens = map[string]string{}
		s.Seat = ""
		s.State = nil
		s.LastMoveCount = -1
	}
	s.CurrentGame = gameID
}

// SetState records the latest game state seen from the server
func (s *Session) SetState(state *core.GameResponse) {
	s.State = state
	s.LastMoveCount = len(state.Moves)
}

// Token returns the token of the active seat
func (s *Session) Token() string {
	return s.Tokens[s.Seat]
}
