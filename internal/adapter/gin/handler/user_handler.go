package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-roster/internal/usecase/user"
	apperrors "user-roster/pkg/errors"
	"user-roster/pkg/logger"
)

// UserHandler handles HTTP requests for roster operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Name  string  `json:"name" binding:"required,max=100"`
	Age   uint32  `json:"age" binding:"lte=150"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	Name  string  `json:"name"`
	Age   uint32  `json:"age"`
	Email *string `json:"email,omitempty"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ListNamesResponse represents the HTTP response for listing names
type ListNamesResponse struct {
	Names []string `json:"names"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CreateUser handles POST /v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   apperrors.KindValidation,
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  req.Name,
		Age:   req.Age,
		Email: req.Email,
	})
	if err != nil {
		log.Error("create user failed", zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id": resp.ID,
	})
}

// ListUsers handles GET /v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{
		Query: c.Query("query"),
	})
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("list users failed", zap.Error(err))
		handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = toResponse(u)
	}

	c.JSON(http.StatusOK, ListUsersResponse{Users: users})
}

// ListNames handles GET /v1/users/names
func (h *UserHandler) ListNames(c *gin.Context) {
	resp, err := h.uc.ListNames(c.Request.Context(), user.ListNamesRequest{
		Query: c.Query("query"),
	})
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("list names failed", zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListNamesResponse{Names: resp.Names})
}

// GetUserByName handles GET /v1/users/by-name/:name
func (h *UserHandler) GetUserByName(c *gin.Context) {
	resp, err := h.uc.GetUserByName(c.Request.Context(), user.GetUserByNameRequest{
		Name: c.Param("name"),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp.User))
}

func toResponse(u user.User) UserResponse {
	return UserResponse{Name: u.Name, Age: u.Age, Email: u.Email}
}

// handleError converts usecase errors to HTTP responses
func handleError(c *gin.Context, err error) {
	code, kind, msg := apperrors.Describe(err)
	c.JSON(code, ErrorResponse{Error: kind, Message: msg})
}
