package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	model "request-logger/internal/models"
	"request-logger/internal/usererrors"
	"request-logger/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, usererrors.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, usererrors.ErrInvalidUser):
		return http.StatusBadRequest, "invalid user details"
	case errors.Is(err, usererrors.ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, usererrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// ToUserResponse converts a user to its public representation
func ToUserResponse(u model.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Debug(handlerName+": "+message, ctx)
}
