package services

import (
	"context"

	"feedback-board/backend/app/models"
	"feedback-board/backend/app/repo"
)

type FeedbackInput struct {
	Title   string
	Content string
}

type FeedbackService struct{ feedback *repo.FeedbackRepository }

func NewFeedbackService(feedback *repo.FeedbackRepository) *FeedbackService {
	return &FeedbackService{feedback: feedback}
}

// Create stores a new note for owner. repo.ErrNotFound means owner does not exist.
func (s *FeedbackService) Create(ctx context.Context, owner string, in FeedbackInput) (*models.Feedback, error) {
	f := &models.Feedback{Title: in.Title, Content: in.Content, Username: owner}
	if err := s.feedback.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FeedbackService) Get(ctx context.Context, id uint) (*models.Feedback, error) {
	return s.feedback.FindByID(ctx, id)
}

func (s *FeedbackService) ListFor(ctx context.Context, owner string) ([]models.Feedback, error) {
	return s.feedback.ListByUsername(ctx, owner)
}

// Update replaces title and content of f in place.
func (s *FeedbackService) Update(ctx context.Context, f *models.Feedback, in FeedbackInput) error {
	f.Title, f.Content = in.Title, in.Content
	return s.feedback.Update(ctx, f)
}

func (s *FeedbackService) Delete(ctx context.Context, id uint) error {
	return s.feedback.Delete(ctx, id)
}
