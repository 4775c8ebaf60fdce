package handlers

import (
	"errors"
	"net/http"

	"askboard/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type VoteHandler struct {
	votes  *services.VoteService
	logger *zap.SugaredLogger
}

func NewVoteHandler(votes *services.VoteService, logger *zap.SugaredLogger) *VoteHandler {
	return &VoteHandler{votes: votes, logger: logger}
}

type voteRequest struct {
	SubjectID              uint   `json:"subjectId" binding:"required"`
	UserID                 string `json:"userId"`
	BelievedCurrentlyVoted bool   `json:"believedCurrentlyVoted"`
}

// Toggle handles POST /vote.
func (h *VoteHandler) Toggle(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.logger, badRequest(err))
		return
	}

	user, err := sessionUser(c, req.UserID)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	count, err := h.votes.Toggle(c.Request.Context(), req.SubjectID, user.ID, req.BelievedCurrentlyVoted)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			RespondErrorWith(c, h.logger, err, gin.H{"newVoteCount": count})
			return
		}
		RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"newVoteCount": count})
}
