// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"askboard/internal/db"
	"askboard/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), db.Config(zap.NewNop().Sugar()))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return conn
}

// CreateTestProfile inserts a profile with the given role and returns its ID.
func CreateTestProfile(t *testing.T, conn *gorm.DB, username string, role models.Role) *models.Profile {
	t.Helper()

	profile := &models.Profile{
		ID:       uuid.NewString(),
		Username: username,
		Role:     role,
	}
	if err := conn.Create(profile).Error; err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}
	return profile
}

// CreateTestQuestion inserts a question owned by userID.
func CreateTestQuestion(t *testing.T, conn *gorm.DB, userID string, upvotes int) *models.Question {
	t.Helper()

	question := &models.Question{
		UserID:  userID,
		Title:   "Test question",
		Details: "Test details",
		Upvotes: upvotes,
	}
	if err := conn.Omit("User").Create(question).Error; err != nil {
		t.Fatalf("Failed to create question: %v", err)
	}
	return question
}

// CreateTestComment inserts a comment with explicit pin state and timestamp.
func CreateTestComment(t *testing.T, conn *gorm.DB, questionID uint, userID string, pinned bool, createdAt time.Time) *models.Comment {
	t.Helper()

	comment := &models.Comment{
		QuestionID: questionID,
		UserID:     userID,
		Content:    "Test comment",
		IsPinned:   pinned,
		CreatedAt:  createdAt,
	}
	if err := conn.Omit("Question", "User").Create(comment).Error; err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	return comment
}

// NewLogger returns a logger that discards everything.
func NewLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
