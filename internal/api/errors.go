package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/db"
	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrInvalidInput), errors.Is(err, database.ErrInvalidPath):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrAlreadyExists):
		return http.StatusConflict
	}
	switch db.StatusOf(err) {
	case db.StatusNotFound:
		return http.StatusNotFound
	case db.StatusUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	code := statusFor(err)
	_ = c.Error(err)

	resp := ErrorResponse{Error: http.StatusText(code), Details: err.Error()}
	if code == http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		resp.Details = ""
	}
	c.JSON(code, resp)
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}
