package repo

import (
	"context"

	"feedback-board/backend/app/models"

	"gorm.io/gorm"
)

type FeedbackRepository struct{ db *gorm.DB }

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository { return &FeedbackRepository{db: db} }

// Create inserts f after checking its owner exists. ErrNotFound means the
// owner is gone.
func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", f.Username).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return translate(tx.Create(f).Error)
	})
}

func (r *FeedbackRepository) FindByID(ctx context.Context, id uint) (*models.Feedback, error) {
	var f models.Feedback
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *FeedbackRepository) ListByUsername(ctx context.Context, username string) ([]models.Feedback, error) {
	var out []models.Feedback
	err := r.db.WithContext(ctx).Where("username = ?", username).Order("id").Find(&out).Error
	return out, err
}

// Update writes title and content only; the owner column is never touched.
// ErrNotFound means the row is gone or changed hands since f was loaded.
// Existence is checked in the same transaction because MySQL reports zero
// affected rows for an unchanged row.
func (r *FeedbackRepository) Update(ctx context.Context, f *models.Feedback) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Feedback{}).
			Where("id = ? AND username = ?", f.ID, f.Username).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return translate(tx.Model(&models.Feedback{}).
			Where("id = ?", f.ID).
			Updates(map[string]any{"title": f.Title, "content": f.Content}).Error)
	})
}

func (r *FeedbackRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Feedback{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
