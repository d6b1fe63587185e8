package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-roster/internal/adapter/kv"
	apperrors "user-roster/pkg/errors"
	"user-roster/pkg/logger"
	"user-roster/pkg/security"
)

// KVHandler serves the key/value store over HTTP.
type KVHandler struct {
	store kv.Store
	log   *zap.Logger
}

// NewKVHandler creates a new KVHandler instance
func NewKVHandler(store kv.Store, log *zap.Logger) *KVHandler {
	return &KVHandler{store: store, log: log}
}

// PutValueRequest is the body of PUT /v1/kv/:key. An empty value is allowed.
type PutValueRequest struct {
	Value *string `json:"value" binding:"required"`
}

// LookupResponse is returned for a key that exists.
type LookupResponse struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Put handles PUT /v1/kv/:key
func (h *KVHandler) Put(c *gin.Context) {
	key := c.Param("key")
	if err := security.ValidateKey(key); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_key", Message: err.Error()})
		return
	}

	var req PutValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: apperrors.KindValidation, Message: err.Error()})
		return
	}

	if err := h.store.Set(c.Request.Context(), key, *req.Value); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Error("kv set failed", zap.String("key", key), zap.Error(err))
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Get handles GET /v1/kv/:key
func (h *KVHandler) Get(c *gin.Context) {
	key := c.Param("key")
	if err := security.ValidateKey(key); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_key", Message: err.Error()})
		return
	}

	value, found, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Error("kv get failed", zap.String("key", key), zap.Error(err))
		handleError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: apperrors.KindNotFound, Message: kv.FormatLookup(value, found)})
		return
	}

	c.JSON(http.StatusOK, LookupResponse{Key: key, Value: value, Message: kv.FormatLookup(value, found)})
}
