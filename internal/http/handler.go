package http

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chessgrid/internal/core"
	"chessgrid/internal/game"
	"chessgrid/internal/processor"
	"chessgrid/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RateLimitRate is the per-client request budget per second, doubled in dev mode
var RateLimitRate = 10

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second, // above the long-poll window
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := RateLimitRate
	if devMode {
		maxReq = RateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	seat := SeatRequired(svc.ValidateSeatToken)

	api.Post("/games", h.CreateGame)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Get("/games/:gameId/board", h.GetBoard)
	api.Get("/games/:gameId/moves", h.GetLegalMoves)
	api.Get("/games/:gameId/threats", h.GetThreats)
	api.Post("/games/:gameId/select", requireGameID, seat, h.Select)
	api.Post("/games/:gameId/moves", requireGameID, seat, h.MakeMove)
	api.Post("/games/:gameId/undo", h.UndoMove)

	return app
}

// contentTypeValidator ensures POST requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get("Content-Type")
		if contentType != "application/json" && contentType != "" {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// requireGameID rejects malformed game ids before the seat check
func requireGameID(c *fiber.Ctx) error {
	if !isValidUUID(c.Params("gameId")) {
		return invalidGameID(c)
	}
	return c.Next()
}

func invalidGameID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid game ID format",
		Code:    core.ErrInvalidRequest,
		Details: "game ID must be a valid UUID",
	})
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps a processor error code onto an HTTP status
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrNotYourTurn, core.ErrNotYourPiece:
		return fiber.StatusForbidden
	case core.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case core.ErrIllegalMove:
		return fiber.StatusUnprocessableEntity
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// reply writes a processor response with the given success status
func reply(c *fiber.Ctx, resp processor.ProcessorResponse, status int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(status)
	}
	return c.Status(status).JSON(resp.Data)
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"games":   h.svc.GameCount(),
		"storage": h.svc.GetStorageHealth(),
	})
}

// CreateGame starts a game from the standard or a supplied position
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, err := validatedBody[core.CreateGameRequest](c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: err.Error(),
			Code:  core.ErrInternalError,
		})
	}

	return reply(c, h.proc.Execute(processor.NewCreateGameCommand(req)), fiber.StatusCreated)
}

// GetGame returns the game state. With wait=true it blocks until the move
// count differs from moveCount, the wait times out or the game is deleted.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	if c.Query("wait", "false") != "true" {
		return reply(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	current, err := h.moveCount(gameID)
	if err != nil {
		return reply(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}
	if moveCount != current {
		return reply(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	ctx, cancel := context.WithCancel(c.Context())
	defer cancel()
	notify := h.svc.RegisterWait(ctx, gameID, moveCount)

	// A move may have landed between the check and the registration
	if current, err := h.moveCount(gameID); err != nil || current != moveCount {
		return reply(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	select {
	case <-notify:
		return reply(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	case <-ctx.Done():
		// Server is shutting down
		return c.Status(fiber.StatusServiceUnavailable).JSON(core.ErrorResponse{
			Error:   "server shutting down",
			Code:    core.ErrUnavailable,
			Details: "poll again after the server restarts",
		})
	}
}

func (h *HTTPHandler) moveCount(gameID string) (int, error) {
	var n int
	err := h.svc.View(gameID, func(g *game.Game) {
		n = g.MoveCount()
	})
	return n, err
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	return reply(c, h.proc.Execute(processor.NewDeleteGameCommand(gameID)), fiber.StatusNoContent)
}

// GetBoard returns the position matrix and its ASCII rendering
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	return reply(c, h.proc.Execute(processor.NewGetBoardCommand(gameID)), fiber.StatusOK)
}

// GetLegalMoves lists the legal destinations of the piece at row, col
func (h *HTTPHandler) GetLegalMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	square := core.SquareRef{Row: c.QueryInt("row", -1), Col: c.QueryInt("col", -1)}
	if errs := validate.Struct(square); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "row and col must be within 0-7",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(errs),
		})
	}

	return reply(c, h.proc.Execute(processor.NewLegalMovesCommand(gameID, square)), fiber.StatusOK)
}

// GetThreats lists the squares attacked by a color, by default the side
// not to move
func (h *HTTPHandler) GetThreats(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	color := core.ColorNone
	if raw := c.Query("color"); raw != "" {
		parsed, ok := core.ParseColor(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error: "color must be w or b",
				Code:  core.ErrInvalidRequest,
			})
		}
		color = parsed
	}

	return reply(c, h.proc.Execute(processor.NewThreatsCommand(gameID, color)), fiber.StatusOK)
}

// Select clicks a square for the seat holding the bearer token
func (h *HTTPHandler) Select(c *fiber.Ctx) error {
	req, err := validatedBody[core.SelectRequest](c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: err.Error(),
			Code:  core.ErrInternalError,
		})
	}
	seat, _ := c.Locals("seat").(core.Color)

	return reply(c, h.proc.Execute(processor.NewSelectCommand(c.Params("gameId"), seat, req)), fiber.StatusOK)
}

// MakeMove submits a move for the seat holding the bearer token
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	req, err := validatedBody[core.MoveRequest](c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: err.Error(),
			Code:  core.ErrInternalError,
		})
	}
	seat, _ := c.Locals("seat").(core.Color)

	return reply(c, h.proc.Execute(processor.NewMakeMoveCommand(c.Params("gameId"), seat, req)), fiber.StatusOK)
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	req, err := validatedBody[core.UndoRequest](c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: err.Error(),
			Code:  core.ErrInternalError,
		})
	}

	return reply(c, h.proc.Execute(processor.NewUndoMoveCommand(gameID, req)), fiber.StatusOK)
}
