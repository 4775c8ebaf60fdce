package handlers

import (
	"net/http"
	"strconv"

	"askboard/internal/middleware"
	"askboard/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuestionHandler struct {
	questions *services.QuestionService
	votes     *services.VoteService
	logger    *zap.SugaredLogger
}

func NewQuestionHandler(questions *services.QuestionService, votes *services.VoteService, logger *zap.SugaredLogger) *QuestionHandler {
	return &QuestionHandler{questions: questions, votes: votes, logger: logger}
}

type questionRequest struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// Create handles POST /questions.
func (h *QuestionHandler) Create(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.logger, badRequest(err))
		return
	}

	question, err := h.questions.Create(c.Request.Context(), middleware.CurrentUser(c), req.Title, req.Details)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"question": question})
}

// List handles GET /questions.
func (h *QuestionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	questions, err := h.questions.List(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// Detail handles GET /questions/:id. hasVoted is false for anonymous callers.
func (h *QuestionHandler) Detail(c *gin.Context) {
	questionID, err := paramID(c, "id")
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	question, err := h.questions.Get(c.Request.Context(), questionID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	hasVoted := false
	if user := middleware.CurrentUser(c); user != nil {
		hasVoted, err = h.votes.HasVoted(c.Request.Context(), questionID, user.ID)
		if err != nil {
			RespondError(c, h.logger, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"question": question, "hasVoted": hasVoted})
}

// Mine handles GET /my-questions.
func (h *QuestionHandler) Mine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		RespondError(c, h.logger, services.ErrUnauthorized)
		return
	}

	questions, err := h.questions.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}
