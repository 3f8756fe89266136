package handlerutil

import (
	"errors"

	"devlink/cmd/server/ctxkeys"
	"devlink/cmd/server/handlers/httperr"
	"devlink/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// GetUserID extracts user ID from fiber context
func GetUserID(c *fiber.Ctx) (bson.ObjectID, error) {
	userIDStr, ok := c.Locals(ctxkeys.UserIDKey).(string)
	if !ok {
		logger.L().Error("user ID not found in context", "handler", "getUserID", "path", c.Path())
		return bson.ObjectID{}, httperr.Fail(httperr.ErrUnauthorized)
	}

	userID, err := bson.ObjectIDFromHex(userIDStr)
	if err != nil {
		logger.L().Error("invalid user ID", "handler", "getUserID", "userIDStr", userIDStr, "path", c.Path(), "error", err)
		return bson.ObjectID{}, httperr.Fail(httperr.ErrUnauthorized)
	}

	return userID, nil
}

// ParseAndValidateBody parses request body and validates it
func ParseAndValidateBody(c *fiber.Ctx, req any, validator *validator.Validate, handlerName string) error {
	if err := c.BodyParser(req); err != nil {
		logger.L().Warn("failed to parse request body", "handler", handlerName, "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := validator.Struct(req); err != nil {
		logger.L().Warn("request validation failed", "handler", handlerName, "error", err)
		return httperr.InvalidInput(err)
	}

	return nil
}

// ExtractObjectID extracts and validates an ObjectID URL parameter.
// A malformed id reads the same as a missing resource.
func ExtractObjectID(c *fiber.Ctx, param, handlerName string, notFoundErr error) (bson.ObjectID, error) {
	idStr := c.Params(param)
	if idStr == "" {
		logger.L().Warn("missing id parameter", "handler", handlerName, "param", param, "path", c.Path())
		return bson.ObjectID{}, httperr.NotFound(notFoundErr)
	}

	id, err := bson.ObjectIDFromHex(idStr)
	if err != nil {
		logger.L().Warn("invalid id parameter", "handler", handlerName, "param", param, "idStr", idStr, "error", err)
		return bson.ObjectID{}, httperr.NotFound(notFoundErr)
	}

	return id, nil
}

// ExtractEntryID extracts a ULID-style embedded entry id URL parameter.
func ExtractEntryID(c *fiber.Ctx, param, handlerName string, notFoundErr error) (string, error) {
	idStr := c.Params(param)
	if idStr == "" {
		logger.L().Warn("missing entry id parameter", "handler", handlerName, "param", param, "path", c.Path())
		return "", httperr.NotFound(notFoundErr)
	}
	return idStr, nil
}

// HandleServiceError maps common service error kinds to HTTP responses.
// notFoundErrs are surfaced as 404; anything else is a 500 with the cause
// logged and a generic body.
func HandleServiceError(err error, handlerName string, userID bson.ObjectID, notFoundErrs ...error) error {
	logFields := []any{"handler", handlerName, "userID", userID.Hex(), "error", err}

	for _, notFoundErr := range notFoundErrs {
		if errors.Is(err, notFoundErr) {
			logger.L().Info("resource not found", logFields...)
			return httperr.NotFound(notFoundErr)
		}
	}

	logger.L().Error("service operation failed", logFields...)
	return httperr.Fail(httperr.ErrInternal)
}
