package directory

import (
	"context"
	"errors"
	"fmt"

	"task-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found in directory")

// Directory resolves user ids to current profile data. It is read-only:
// account management lives outside this service.
type Directory interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.UserProfile, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.UserProfile, error)
}

type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) FindByID(ctx context.Context, id uuid.UUID) (models.UserProfile, error) {
	var user models.User
	result := d.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return models.UserProfile{}, ErrUserNotFound
		}
		return models.UserProfile{}, fmt.Errorf("directory lookup failed: %w", result.Error)
	}
	return user.Profile(), nil
}

// FindByIDs resolves a batch in one query. Ids without a matching user are
// simply absent from the result; callers decide whether that is an error.
func (d *GormDirectory) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.UserProfile, error) {
	profiles := make(map[uuid.UUID]models.UserProfile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	var users []models.User
	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("directory batch lookup failed: %w", result.Error)
	}

	for _, user := range users {
		profiles[user.ID] = user.Profile()
	}
	return profiles, nil
}
