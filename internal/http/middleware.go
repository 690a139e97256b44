package http

import (
	"fmt"
	"reflect"
	"strings"

	"checkers/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const seatTokenHeader = "X-Seat-Token"

var validate = validator.New()

// SeatToken copies the seat token from the Authorization bearer or the
// X-Seat-Token header into the request locals. Authorization happens later in
// the service, a missing token is not an error here.
func SeatToken(c *fiber.Ctx) error {
	token := extractBearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		token = strings.TrimSpace(c.Get(seatTokenHeader))
	}
	if token != "" {
		c.Locals("seatToken", token)
	}
	return c.Next()
}

func seatToken(c *fiber.Ctx) string {
	token, _ := c.Locals("seatToken").(string)
	return token
}

// extractBearerToken extracts the token from an Authorization header
func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// contentTypeValidator ensures POST and PUT requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodPost || method == fiber.MethodPut {
		contentType := c.Get(fiber.HeaderContentType)
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// requestTypeFor picks the body type of a route, nil for routes without a body
func requestTypeFor(method, path string) any {
	switch {
	case method == fiber.MethodPost && strings.HasSuffix(path, "/engine/legal-moves"):
		return &core.PositionRequest{}
	case method == fiber.MethodPost && strings.HasSuffix(path, "/engine/best-move"):
		return &core.PositionRequest{}
	case method == fiber.MethodPost && strings.HasSuffix(path, "/engine/apply"):
		return &core.ApplyRequest{}
	case method == fiber.MethodPost && strings.HasSuffix(path, "/games"):
		return &core.CreateGameRequest{}
	case method == fiber.MethodPut && strings.HasSuffix(path, "/players"):
		return &core.ConfigurePlayersRequest{}
	case method == fiber.MethodPost && strings.HasSuffix(path, "/moves"):
		return &core.MoveRequest{}
	case method == fiber.MethodPost && strings.HasSuffix(path, "/undo"):
		return &core.UndoRequest{}
	}
	return nil
}

// validationMiddleware parses and validates request bodies before handlers run
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	requestType := requestTypeFor(method, strings.TrimSuffix(c.Path(), "/"))
	if requestType == nil {
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
		var details strings.Builder
		var verrs validator.ValidationErrors
		if ve, ok := errs.(validator.ValidationErrors); ok {
			verrs = ve
		} else {
			details.WriteString(errs.Error())
		}
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
				if err.Type().Kind() == reflect.String {
					details.WriteString(fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param()))
				} else {
					details.WriteString(fmt.Sprintf("%s must be at least %s", err.Field(), err.Param()))
				}
			case "max":
				if err.Type().Kind() == reflect.String {
					details.WriteString(fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param()))
				} else {
					details.WriteString(fmt.Sprintf("%s must be at most %s", err.Field(), err.Param()))
				}
			default:
				details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
			}
		}

		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: details.String(),
		})
	}

	c.Locals("validatedBody", requestType)
	c.Locals("validated", true)

	return c.Next()
}

// validatedBody returns the body parsed by validationMiddleware; false means
// the middleware did not run for this route
func validatedBody[T any](c *fiber.Ctx) (T, bool) {
	var zero T
	if validated, ok := c.Locals("validated").(bool); !ok || !validated {
		return zero, false
	}
	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		return zero, false
	}
	return *body, true
}

func validationBypass(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
		Error: "validation bypass detected",
		Code:  core.ErrInternalError,
	})
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
