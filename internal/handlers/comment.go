package handlers

import (
	"net/http"

	"askboard/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	comments *services.CommentService
	logger   *zap.SugaredLogger
}

func NewCommentHandler(comments *services.CommentService, logger *zap.SugaredLogger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

type commentRequest struct {
	SubjectID uint   `json:"subjectId" binding:"required"`
	UserID    string `json:"userId"`
	Content   string `json:"content"`
}

// Create handles POST /comments.
func (h *CommentHandler) Create(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.logger, badRequest(err))
		return
	}

	user, err := sessionUser(c, req.UserID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), req.SubjectID, user.ID, req.Content)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// List handles GET /questions/:id/comments.
func (h *CommentHandler) List(c *gin.Context) {
	questionID, err := paramID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	comments, err := h.comments.List(c.Request.Context(), questionID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
