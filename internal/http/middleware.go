package http

import (
	"errors"
	"strings"

	"chessgrid/internal/core"
	"chessgrid/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SeatValidator resolves a bearer token to the seat color it grants in a game
type SeatValidator func(gameID, token string) (core.Color, error)

// SeatRequired admits requests carrying a valid seat token for the game in
// the path and stores the seat color in Locals("seat")
func SeatRequired(validate SeatValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c.Get("Authorization"))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: "missing seat token",
				Code:  core.ErrUnauthorized,
			})
		}

		seat, err := validate(c.Params("gameId"), token)
		if err != nil {
			if errors.Is(err, service.ErrGameNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
					Error: "game not found",
					Code:  core.ErrGameNotFound,
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error:   "invalid or expired seat token",
				Code:    core.ErrUnauthorized,
				Details: err.Error(),
			})
		}

		c.Locals("seat", seat)
		return c.Next()
	}
}

// extractBearerToken extracts JWT token from Authorization header
func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
