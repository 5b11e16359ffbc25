package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
)

// statusFor maps service errors to HTTP status codes and error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, dto.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, dto.ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE"
	case errors.Is(err, dto.ErrUnreadableFile):
		return http.StatusUnprocessableEntity, "UNREADABLE_FILE"
	case errors.Is(err, dto.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, dto.ErrEmptyText),
		errors.Is(err, dto.ErrEmptyName),
		errors.Is(err, dto.ErrUnknownFormat):
		return http.StatusBadRequest, "INVALID_REQUEST"
	}
	return http.StatusInternalServerError, "PROCESSING_FAILED"
}

// sendError sends a structured error response
func sendError(c *gin.Context, log zerolog.Logger, statusCode int, code, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Warn().
			Err(err).
			Str("request_id", RequestIDFromContext(c)).
			Int("status", statusCode).
			Msg(message)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: errorMsg,
		Code:    statusCode,
	})
}

// sendServiceError picks the status from err.
func sendServiceError(c *gin.Context, log zerolog.Logger, message string, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", RequestIDFromContext(c)).Msg(message)
		c.JSON(status, dto.ErrorResponse{Error: code, Message: message, Code: status})
		return
	}
	sendError(c, log, status, code, message, err)
}
