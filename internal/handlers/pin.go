package handlers

import (
	"net/http"

	"askboard/internal/middleware"
	"askboard/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PinHandler struct {
	pins   *services.PinService
	logger *zap.SugaredLogger
}

func NewPinHandler(pins *services.PinService, logger *zap.SugaredLogger) *PinHandler {
	return &PinHandler{pins: pins, logger: logger}
}

type pinRequest struct {
	CommentID     uint `json:"commentId" binding:"required"`
	SubjectID     uint `json:"subjectId"`
	DesiredPinned bool `json:"desiredPinned"`
}

// SetPinned handles POST /pin.
func (h *PinHandler) SetPinned(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.logger, badRequest(err))
		return
	}

	comment, err := h.pins.SetPinned(c.Request.Context(), services.PinRequest{
		CommentID:  req.CommentID,
		QuestionID: req.SubjectID,
		Pinned:     req.DesiredPinned,
	}, middleware.CurrentUser(c))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isPinned": comment.IsPinned})
}
