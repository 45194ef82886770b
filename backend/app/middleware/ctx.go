package middleware

import (
	"context"

	"feedback-board/backend/app/models"
)

type ctxKey int

const (
	feedbackKey ctxKey = iota + 1
	requestIDKey
)

func WithFeedback(ctx context.Context, f *models.Feedback) context.Context {
	return context.WithValue(ctx, feedbackKey, f)
}

// FeedbackFromContext returns the row loaded by RequireFeedbackOwner.
func FeedbackFromContext(ctx context.Context) *models.Feedback {
	if v := ctx.Value(feedbackKey); v != nil {
		if f, ok := v.(*models.Feedback); ok {
			return f
		}
	}
	return nil
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
