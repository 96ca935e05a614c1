// Package comments stores interviewer feedback on interviews.
package comments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
	"github.com/blesswrld/codesync/backend/go-services/internal/realtime"
	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
	"github.com/blesswrld/codesync/backend/go-services/pkg/metrics"
)

// InterviewLookup is the slice of the interview store comments depend on.
type InterviewLookup interface {
	Get(ctx context.Context, id string) (*models.Interview, error)
}

type Service struct {
	repo       Repository
	interviews InterviewLookup
	pub        realtime.Publisher
}

func NewService(repo Repository, interviews InterviewLookup, pub realtime.Publisher) *Service {
	if pub == nil {
		pub = realtime.NoOpPublisher{}
	}
	return &Service{repo: repo, interviews: interviews, pub: pub}
}

// Validate checks comment input the same way AddComment does.
func Validate(content string, rating int) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("content", "must not be empty")
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return models.NewValidationError("rating", fmt.Sprintf("must be between %d and %d", models.MinRating, models.MaxRating))
	}
	return nil
}

// AddComment stores a comment by author on an existing interview. Content
// is stored trimmed.
func (s *Service) AddComment(ctx context.Context, author, interviewID, content string, rating int) (*models.Comment, error) {
	if author == "" {
		return nil, fmt.Errorf("comment author: %w", models.ErrForbidden)
	}
	if err := Validate(content, rating); err != nil {
		return nil, err
	}
	iv, err := s.interviews.Get(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("load interview %s: %w", interviewID, err)
	}
	if iv == nil {
		return nil, fmt.Errorf("interview %s: %w", interviewID, models.ErrNotFound)
	}
	c := &models.Comment{
		ID:            uuid.NewString(),
		InterviewID:   interviewID,
		InterviewerID: author,
		Content:       strings.TrimSpace(content),
		Rating:        rating,
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("store comment: %w", err)
	}
	metrics.CommentsCreated.Inc()
	logger.Infof("comment %s added to interview %s by %s", c.ID, interviewID, author)
	s.pub.Publish(ctx, realtime.InterviewCommentsTopic(interviewID))
	return c, nil
}

// ListForInterview returns comments oldest first.
func (s *Service) ListForInterview(ctx context.Context, interviewID string) ([]*models.Comment, error) {
	return s.repo.ListByInterview(ctx, interviewID)
}
