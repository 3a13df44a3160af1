package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
)

// SystemLogWriter persists unexpected failures
type SystemLogWriter interface {
	CreateSystemLog(ctx context.Context, entry *models.SystemLog) error
}

const systemLogTimeout = 3 * time.Second

// ErrorHandler is the fiber error handler. Deliberate failures are answered
// with their own status; anything else is logged, persisted as a SystemLog
// row when possible, and answered by its mapped status.
func ErrorHandler(logs SystemLogWriter, logger *zap.Logger) fiber.ErrorHandler {
	logger = logger.Named("errors")

	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		body := fiber.Map{"message": "Internal server error."}
		deliberate := false

		var (
			svcErr   *services.Error
			fiberErr *fiber.Error
			verrs    validator.ValidationErrors
		)
		switch {
		case errors.As(err, &svcErr):
			status = svcErr.Status()
			body["message"] = svcErr.Message
			if len(svcErr.Fields) > 0 {
				body["errors"] = svcErr.Fields
			}
			deliberate = true
		case errors.As(err, &verrs):
			status = fiber.StatusBadRequest
			body["message"] = "Validation failed."
			body["errors"] = FieldErrors(verrs)
			deliberate = true
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			body["message"] = fiberErr.Message
			deliberate = fiberErr.Code < fiber.StatusInternalServerError
		case errors.Is(err, storage.ErrNotFound):
			status = fiber.StatusNotFound
			body["message"] = "Resource not found."
		case errors.Is(err, storage.ErrDuplicate):
			status = fiber.StatusBadRequest
			body["message"] = "Duplicate value."
		}

		if !deliberate {
			logger.Error("request failed",
				zap.String("request_id", RequestID(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err))
			persistSystemLog(c, logs, logger, status, err)
		}
		return c.Status(status).JSON(body)
	}
}

func persistSystemLog(c *fiber.Ctx, logs SystemLogWriter, logger *zap.Logger, status int, err error) {
	if logs == nil {
		return
	}
	entry := &models.SystemLog{
		Message:    err.Error(),
		Method:     c.Method(),
		URL:        c.OriginalURL(),
		StatusCode: status,
		IP:         c.IP(),
	}
	if identity, ok := CurrentIdentity(c); ok {
		entry.UserID = identity.UserID
	}

	ctx, cancel := context.WithTimeout(context.Background(), systemLogTimeout)
	defer cancel()
	if logErr := logs.CreateSystemLog(ctx, entry); logErr != nil {
		logger.Warn("failed to persist system log", zap.Error(logErr))
	}
}
