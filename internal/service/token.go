package service

import (
	"fmt"

	"chessgrid/internal/core"

	"github.com/lixenwraith/auth"
)

const claimGame = "game"

func (s *Service) issueSeatToken(gameID, seatID string, color core.Color) (string, error) {
	claims := map[string]any{
		claimGame: gameID,
		"color":   color.String(),
	}
	return auth.GenerateHS256Token(s.jwtSecret, seatID, claims, s.tokenTTL)
}

// ValidateSeatToken verifies a seat token for gameID and returns the color of
// the seat it was issued for
func (s *Service) ValidateSeatToken(gameID, token string) (core.Color, error) {
	seatID, claims, err := auth.ValidateHS256Token(s.jwtSecret, token)
	if err != nil {
		return core.ColorNone, fmt.Errorf("%w: %v", ErrInvalidSeat, err)
	}
	if g, ok := claims[claimGame].(string); ok && g != gameID {
		return core.ColorNone, fmt.Errorf("%w: issued for another game", ErrInvalidSeat)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.games[gameID]
	if !ok {
		return core.ColorNone, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	color, ok := sess.seats[seatID]
	if !ok {
		return core.ColorNone, fmt.Errorf("%w: unknown seat", ErrInvalidSeat)
	}
	return color, nil
}
