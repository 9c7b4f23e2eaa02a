package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	model "request-logger/internal/models"
	"request-logger/services/users/helpers"
	"request-logger/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=users_handler.go -destination=mock_users_service.go -package=handler

type UserServiceInterface interface {
	RegisterUser(ctx context.Context, name, email, password string) (model.User, error)
	GetUser(ctx context.Context, userID string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, userID string) error
	Authenticate(ctx context.Context, email, password string) (model.Session, error)
}

type UsersHandler struct {
	service UserServiceInterface
}

func NewUsersHandler(service UserServiceInterface) *UsersHandler {
	return &UsersHandler{service: service}
}

// fail maps err to a response and logs it
func fail(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := helpers.MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+message, fields)
		return
	}
	utils.Warn(handlerName+": "+message, fields)
}

// RegisterUserHandler handles POST /users
func (h *UsersHandler) RegisterUserHandler(c *gin.Context) {
	var req helpers.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterUserHandler", err)
		return
	}

	user, err := h.service.RegisterUser(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, "RegisterUserHandler", err, map[string]any{"email": req.Email})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToUserResponse(user), "user registered successfully")
	helpers.LogSuccess("RegisterUserHandler", "user registered successfully", map[string]any{
		"user_id": user.UserID,
		"email":   user.Email,
	})
}

// ListUsersHandler handles GET /users
func (h *UsersHandler) ListUsersHandler(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, "ListUsersHandler", err, map[string]any{})
		return
	}

	resp := make([]helpers.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, helpers.ToUserResponse(u))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "users retrieved successfully")
	helpers.LogSuccess("ListUsersHandler", "users retrieved successfully", map[string]any{"count": len(resp)})
}

// GetUserHandler handles GET /users/:user_id
func (h *UsersHandler) GetUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, "GetUserHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToUserResponse(user), "user retrieved successfully")
	helpers.LogSuccess("GetUserHandler", "user retrieved successfully", map[string]any{"user_id": userID})
}

// DeleteUserHandler handles DELETE /users/:user_id
func (h *UsersHandler) DeleteUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	if err := h.service.DeleteUser(c.Request.Context(), userID); err != nil {
		fail(c, "DeleteUserHandler", err, map[string]any{"user_id": userID})
		return
	}

	c.Status(http.StatusNoContent)
	helpers.LogSuccess("DeleteUserHandler", "user deleted successfully", map[string]any{"user_id": userID})
}

// LoginHandler handles POST /sessions
func (h *UsersHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	session, err := h.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, "LoginHandler", err, map[string]any{"email": req.Email})
		return
	}

	resp := helpers.SessionResponse{
		Token:     session.Token,
		UserID:    session.UserID,
		CreatedAt: session.CreatedAt.UTC().Format(time.RFC3339),
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "session created successfully")
	helpers.LogSuccess("LoginHandler", "session created successfully", map[string]any{"user_id": session.UserID})
}
