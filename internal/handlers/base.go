package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"askboard/internal/middleware"
	"askboard/internal/models"
	"askboard/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as JSON. Storage details stay in the log.
func RespondError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	RespondErrorWith(c, logger, err, nil)
}

// RespondErrorWith is RespondError with extra fields merged into the body.
func RespondErrorWith(c *gin.Context, logger *zap.SugaredLogger, err error, extra gin.H) {
	code := statusFor(err)
	body := gin.H{}
	for k, v := range extra {
		body[k] = v
	}

	if code == http.StatusInternalServerError {
		logger.Errorw("request failed", "path", c.FullPath(), "error", err)
		body["error"] = "internal error, please retry"
	} else {
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(code, body)
}

// sessionUser returns the logged in profile, rejecting a body userId that
// names someone else.
func sessionUser(c *gin.Context, claimed string) (*models.Profile, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, services.ErrUnauthorized
	}
	if claimed != "" && claimed != user.ID {
		return nil, services.ErrUnauthorized
	}
	return user, nil
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, services.ErrNotFound
	}
	return uint(id), nil
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", services.ErrInvalidInput, err)
}
