package repo

import (
	"context"

	"feedback-board/backend/app/models"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) CountByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count, err
}

// Create inserts u in a single statement. A taken username or email yields
// ErrAlreadyExists and leaves nothing behind.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindWithFeedback loads the user together with its feedback, oldest first.
func (r *UserRepository) FindWithFeedback(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Preload("Feedback", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Delete removes the user and every feedback row it owns in one transaction.
// The explicit feedback delete keeps the cascade intact on stores that do not
// enforce foreign keys.
func (r *UserRepository) Delete(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		res := tx.Where("username = ?", username).Delete(&models.User{})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
