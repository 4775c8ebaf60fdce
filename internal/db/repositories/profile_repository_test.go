package repositories

import (
	"context"
	"errors"
	"testing"

	"askboard/internal/models"
	"askboard/internal/testutil"
)

func TestProfileRepositoryGetRole(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewProfileRepository(conn)

	admin := testutil.CreateTestProfile(t, conn, "admin", models.RoleAdmin)

	role, err := repo.GetRole(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetRole failed: %v", err)
	}
	if role != models.RoleAdmin {
		t.Errorf("expected admin, got %q", role)
	}

	if _, err := repo.GetRole(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileRepositoryEmptyRoleIsUser(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewProfileRepository(conn)

	profile := testutil.CreateTestProfile(t, conn, "plain", models.RoleUser)
	if err := conn.Model(profile).UpdateColumn("role", "").Error; err != nil {
		t.Fatalf("clear role failed: %v", err)
	}

	got, err := repo.GetOne(ctx, profile.ID)
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if got.Role != models.RoleUser {
		t.Errorf("expected user role, got %q", got.Role)
	}
}
