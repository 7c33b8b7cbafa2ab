package http

import (
	"fmt"
	"reflect"
	"strings"

	"chessgrid/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = newValidator()

// newValidator registers the position rules on top of the struct tags
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateCreateGame, core.CreateGameRequest{})
	return v
}

// validateCreateGame rejects oversized matrices and cells early. Exact board
// validation, including the 8x8 shape, is left to the board loader so its
// messages reach the client.
func validateCreateGame(sl validator.StructLevel) {
	req := sl.Current().Interface().(core.CreateGameRequest)
	for _, row := range req.Position {
		if len(row) > 16 {
			sl.ReportError(req.Position, "Position", "position", "maxrow", "16")
			return
		}
		for _, cell := range row {
			if len(cell) > 4 {
				sl.ReportError(req.Position, "Position", "position", "maxcell", "4")
				return
			}
		}
	}
}

// validationMiddleware parses and validates JSON bodies by route and stores
// the result in Locals("validatedBody")
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	path := c.Path()
	var requestType any

	switch {
	case strings.HasSuffix(path, "/games") && method == fiber.MethodPost:
		requestType = &core.CreateGameRequest{}
	case strings.HasSuffix(path, "/select") && method == fiber.MethodPost:
		requestType = &core.SelectRequest{}
	case strings.HasSuffix(path, "/moves") && method == fiber.MethodPost:
		requestType = &core.MoveRequest{}
	case strings.HasSuffix(path, "/undo") && method == fiber.MethodPost:
		requestType = &core.UndoRequest{}
	default:
		return c.Next()
	}

	if err := c.BodyParser(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if errs := validate.Struct(requestType); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(errs),
		})
	}

	c.Locals("validatedBody", requestType)
	c.Locals("validated", true)

	return c.Next()
}

func describeValidation(errs error) string {
	verrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		return errs.Error()
	}

	var details strings.Builder
	for _, err := range verrs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch err.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", err.Field()))
		case "oneof":
			details.WriteString(fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param()))
		case "min":
			details.WriteString(fmt.Sprintf("%s must be at least %s", err.Field(), err.Param()))
		case "max":
			if err.Type().Kind() == reflect.Slice {
				details.WriteString(fmt.Sprintf("%s must have at most %s rows", err.Field(), err.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at most %s", err.Field(), err.Param()))
			}
		case "maxrow":
			details.WriteString(fmt.Sprintf("%s rows must have at most %s cells", err.Field(), err.Param()))
		case "maxcell":
			details.WriteString(fmt.Sprintf("%s cells must be at most %s characters", err.Field(), err.Param()))
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
		}
	}
	return details.String()
}

// validatedBody returns the body stored by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (T, error) {
	var zero T
	if validated, ok := c.Locals("validated").(bool); !ok || !validated {
		return zero, fmt.Errorf("validation bypass detected")
	}
	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		return zero, fmt.Errorf("validation data missing")
	}
	return *body, nil
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
