package service

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"chessgrid/internal/board"
	"chessgrid/internal/core"
	"chessgrid/internal/game"
	"chessgrid/internal/storage"

	"github.com/google/uuid"
)

// session is a running game plus the seat ids its tokens are bound to
type session struct {
	game  *game.Game
	seats map[string]core.Color
}

func (s *session) seatOf(color core.Color) string {
	for id, c := range s.seats {
		if c == color {
			return id
		}
	}
	return ""
}

// CreateGame starts a game seen from player with turn to move. A nil matrix
// uses the standard arrangement; a malformed one is rejected. It returns the
// game id and one token per seat.
func (s *Service) CreateGame(player, turn core.Color, matrix [][]string) (string, core.SeatTokens, error) {
	g, err := game.New(player, turn, matrix)
	if err != nil {
		return "", core.SeatTokens{}, fmt.Errorf("load position: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gameID := s.generateID()
	sess := &session{
		game: g,
		seats: map[string]core.Color{
			uuid.New().String(): core.ColorWhite,
			uuid.New().String(): core.ColorBlack,
		},
	}

	var tokens core.SeatTokens
	for seatID, color := range sess.seats {
		token, err := s.issueSeatToken(gameID, seatID, color)
		if err != nil {
			return "", core.SeatTokens{}, fmt.Errorf("issue %s seat token: %w", color.Name(), err)
		}
		if color == core.ColorWhite {
			tokens.White = token
		} else {
			tokens.Black = token
		}
	}

	s.games[gameID] = sess

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:          gameID,
			PlayerColor:     g.Player().String(),
			StartingTurn:    g.Turn().String(),
			InitialPosition: encodePosition(g.InitialPosition()),
			WhiteSeatID:     sess.seatOf(core.ColorWhite),
			BlackSeatID:     sess.seatOf(core.ColorBlack),
			StartTimeUTC:    time.Now().UTC(),
		})
	}

	return gameID, tokens, nil
}

// generateID returns a game id not yet in use. Caller holds the lock.
func (s *Service) generateID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// Select feeds a click from the seat of color into the game's selection state
// machine. A click that completes a move advances the turn. The returned color
// is the side to move after the click.
func (s *Service) Select(gameID string, color core.Color, pos board.Coord) (game.Selection, core.Color, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionForTurn(gameID, color)
	if err != nil {
		return game.Selection{}, core.ColorNone, err
	}

	sel, err := sess.game.SelectSquare(pos)
	if err != nil {
		return sel, sess.game.Turn(), err
	}
	if sel.Moved != nil {
		s.afterMove(gameID, sess.game, *sel.Moved)
	}
	return sel, sess.game.Turn(), nil
}

// Move applies a move for the seat of color and advances the turn
func (s *Service) Move(gameID string, color core.Color, from, to board.Coord) (board.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionForTurn(gameID, color)
	if err != nil {
		return board.MoveResult{}, err
	}

	res, err := sess.game.Move(from, to)
	if err != nil {
		return board.MoveResult{}, err
	}
	s.afterMove(gameID, sess.game, res)
	return res, nil
}

func (s *Service) sessionForTurn(gameID string, color core.Color) (*session, error) {
	sess, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if turn := sess.game.Turn(); turn != color {
		return nil, fmt.Errorf("%w: %s to move", ErrNotYourTurn, turn.Name())
	}
	return sess, nil
}

// afterMove passes the turn, wakes waiters and persists. Caller holds the lock.
func (s *Service) afterMove(gameID string, g *game.Game, res board.MoveResult) {
	g.NextTurn()
	s.waiter.NotifyGame(gameID, g.MoveCount())

	if s.store == nil {
		return
	}

	kind := board.MoveNormal
	switch {
	case res.Castling:
		kind = board.MoveCastling
	case res.EnPassant:
		kind = board.MoveEnPassant
	}

	s.store.RecordMove(storage.MoveRecord{
		GameID:        gameID,
		MoveNumber:    g.MoveCount(),
		FromRow:       res.From.Row,
		FromCol:       res.From.Col,
		ToRow:         res.To.Row,
		ToCol:         res.To.Col,
		Piece:         res.Piece.String(),
		Captured:      res.Captured.String(),
		Kind:          kind.String(),
		PositionAfter: encodePosition(g.CurrentPosition()),
		PlayerColor:   res.Color.String(),
		MoveTimeUTC:   time.Now().UTC(),
	})
}

// LegalMoves returns the legal destinations of the piece on pos for the side
// to move
func (s *Service) LegalMoves(gameID string, pos board.Coord) (board.MoveSet, error) {
	var moves board.MoveSet
	err := s.View(gameID, func(g *game.Game) {
		moves = g.LegalMoves(pos)
	})
	return moves, err
}

// Threats returns the threat map of color
func (s *Service) Threats(gameID string, color core.Color) (board.MoveSet, error) {
	var threats board.MoveSet
	err := s.View(gameID, func(g *game.Game) {
		threats = g.Threats(color)
	})
	return threats, err
}

// Undo removes the last count moves from the game history
func (s *Service) Undo(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	before := sess.game.MoveCount()
	if err := sess.game.UndoMoves(count); err != nil {
		return err
	}

	s.waiter.NotifyGame(gameID, sess.game.MoveCount())

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, before-count)
	}
	return nil
}

// DeleteGame drops a game, releases its waiters and removes its records
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)

	if s.store != nil {
		s.store.DeleteGame(gameID)
	}
	return nil
}

func encodePosition(m [][]string) string {
	data, err := json.Marshal(m)
	if err != nil {
		log.Printf("encode position: %v", err)
		return "[]"
	}
	return string(data)
}
