package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/PolicyFinder/internal/models"
	"github.com/go-playground/validator/v10"
)

// FeedbackRepository defines the write operation needed by FeedbackService.
type FeedbackRepository interface {
	InsertFeedback(ctx context.Context, fb models.Feedback) error
}

// FeedbackService validates and stores visitor feedback.
type FeedbackService struct {
	repo     FeedbackRepository
	validate *validator.Validate
}

// NewFeedbackService constructs a FeedbackService with the provided repository.
func NewFeedbackService(repo FeedbackRepository) *FeedbackService {
	return &FeedbackService{repo: repo, validate: validator.New()}
}

// Submit stores comment, optionally tied to policyID. A comment that is
// blank after trimming is rejected with models.ErrEmptyComment before any
// write, and a non-positive policy id with models.ErrInvalidFeedback; the
// stored text is the untrimmed comment. Write failures are
// returned as *models.FetchError.
func (s *FeedbackService) Submit(ctx context.Context, comment string, policyID *int64) error {
	if strings.TrimSpace(comment) == "" {
		return models.ErrEmptyComment
	}
	fb := models.Feedback{Comment: comment, PolicyID: policyID}
	if err := s.validate.Struct(fb); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidFeedback, err)
	}
	if err := s.repo.InsertFeedback(ctx, fb); err != nil {
		return &models.FetchError{Op: "submit feedback", Err: err}
	}
	return nil
}
