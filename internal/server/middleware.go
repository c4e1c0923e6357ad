package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RequestLogger logs one line per request.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kv := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start).Round(time.Millisecond),
		}
		if id := c.Param("id"); id != "" {
			kv = append(kv, "session", id)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("request", kv...)
		case status >= 400:
			logger.Warn("request", kv...)
		default:
			logger.Info("request", kv...)
		}
	}
}

var kindStatus = map[string]int{
	"validation":            http.StatusBadRequest,
	"invalid_index":         http.StatusBadRequest,
	"nothing_selected":      http.StatusBadRequest,
	"unknown_tier":          http.StatusBadRequest,
	"confirmation_required": http.StatusPreconditionRequired,
	"session_not_found":     http.StatusNotFound,
	"playlist_not_found":    http.StatusNotFound,
	"track_not_found":       http.StatusNotFound,
	"upload_not_found":      http.StatusNotFound,
	"no_match_found":        http.StatusNotFound,
	"duplicate_name":        http.StatusConflict,
	"duplicate_track":       http.StatusConflict,
	"session_closed":        http.StatusGone,
	"empty_playlist":        http.StatusUnprocessableEntity,
	"all_downloads_failed":  http.StatusUnprocessableEntity,
	"lookup_failure":        http.StatusBadGateway,
	"extraction_failed":     http.StatusBadGateway,
	"provider_unavailable":  http.StatusServiceUnavailable,
	"timeout":               http.StatusRequestTimeout,
}

// StatusFor maps err onto an HTTP status code through its error kind.
func StatusFor(err error) int {
	if errors.Is(err, context.Canceled) {
		return http.StatusRequestTimeout
	}
	if status, ok := kindStatus[shared.ErrorKind(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(StatusFor(err), ErrorResponse{
		Error:   shared.ErrorKind(err),
		Message: err.Error(),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "validation", Message: msg})
}
