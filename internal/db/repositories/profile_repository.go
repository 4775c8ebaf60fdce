package repositories

import (
	"context"

	"askboard/internal/models"

	"gorm.io/gorm"
)

type profileRepository struct {
	repository
}

type ProfileRepository interface {
	GetOne(ctx context.Context, userID string) (*models.Profile, error)
	GetRole(ctx context.Context, userID string) (models.Role, error)
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *profileRepository) GetOne(ctx context.Context, userID string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(profile).Error
	if err != nil {
		return nil, notFound(err)
	}
	profile.Role = models.NormalizeRole(string(profile.Role))
	return profile, nil
}

func (r *profileRepository) GetRole(ctx context.Context, userID string) (models.Role, error) {
	profile, err := r.GetOne(ctx, userID)
	if err != nil {
		return "", err
	}
	return profile.Role, nil
}
