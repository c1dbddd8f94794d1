package handlers

import (
	"errors"

	"github.com/base-creator-connect/backend/internal/apperr"
	"github.com/base-creator-connect/backend/internal/http/dto"
	"github.com/base-creator-connect/backend/internal/middleware"
	"github.com/base-creator-connect/backend/internal/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.CtxRequestID).(string)
	return id
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg, RequestID: requestID(c)})
}

func notFoundResponse(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: msg, RequestID: requestID(c)})
}

// respondError maps service errors to a status code. Internal details of
// 5xx errors are logged, not returned.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFoundResponse(c, "not found")
	}

	ae := apperr.From(err)
	status := apperr.HTTPStatus(ae)
	if status >= fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("request_id", requestID(c)),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(status).JSON(dto.ErrorResponse{Error: "internal error", Type: string(ae.Type), RequestID: requestID(c)})
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Error:     ae.Message,
		Type:      string(ae.Type),
		Code:      ae.Code,
		RequestID: requestID(c),
	})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func parseOptionalUUID(s *string) (*uuid.UUID, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, false
	}
	return &id, true
}
