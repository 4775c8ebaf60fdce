package middleware

import (
	"errors"
	"net/http"

	"askboard/internal/db/repositories"
	"askboard/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CheckUserKey   = "user"
	SessionUserKey = "user_id"
)

// AuthRequired rejects requests without a loaded profile.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

// LoadUser resolves the session's user_id to a profile and stores it on the
// context. The profile is read on every request so role changes apply
// immediately.
func LoadUser(profiles repositories.ProfileRepository, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw, ok := session.Get(SessionUserKey).(string)
		if !ok || raw == "" {
			c.Next()
			return
		}

		if _, err := uuid.Parse(raw); err != nil {
			logger.Warnw("invalid user id in session", "user_id", raw)
			session.Delete(SessionUserKey)
			_ = session.Save()
			c.Next()
			return
		}

		profile, err := profiles.GetOne(c.Request.Context(), raw)
		switch {
		case err == nil:
			c.Set(CheckUserKey, profile)
		case errors.Is(err, repositories.ErrNotFound):
			session.Delete(SessionUserKey)
			_ = session.Save()
		default:
			logger.Errorw("failed to load session user", "user_id", raw, "error", err)
		}
		c.Next()
	}
}

// CurrentUser returns the profile loaded by LoadUser, or nil.
func CurrentUser(c *gin.Context) *models.Profile {
	user, exists := c.Get(CheckUserKey)
	if !exists {
		return nil
	}
	profile, _ := user.(*models.Profile)
	return profile
}
