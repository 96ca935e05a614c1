// Package interviews owns scheduling and status truth for interviews.
package interviews

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

// CreateInput is what the scheduling workflow hands to Create.
type CreateInput struct {
	Title          string
	Description    string
	StartTime      time.Time
	CandidateID    string
	InterviewerIDs []string
	CallRef        string
}

// Options tune the service.
type Options struct {
	// StrictTransitions enforces upcoming -> completed -> {succeeded, failed}.
	StrictTransitions bool
}

type Service struct {
	repo Repository
	pub  realtime.Publisher
	opts Options
	now  func() time.Time
}

func NewService(repo Repository, pub realtime.Publisher, opts Options) *Service {
	if pub == nil {
		pub = realtime.NoOpPublisher{}
	}
	return &Service{repo: repo, pub: pub, opts: opts, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores a new interview with status upcoming. Interviewer policy is
// enforced by the caller.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Interview, error) {
	if in.CallRef == "" {
		return nil, models.NewValidationError("callRef", "is required")
	}
	if in.CandidateID == "" {
		return nil, models.NewValidationError("candidateId", "is required")
	}
	now := s.now().Truncate(time.Millisecond)
	iv := &models.Interview{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		StartTime:      in.StartTime.UTC().Truncate(time.Millisecond),
		Status:         models.StatusUpcoming,
		CallRef:        in.CallRef,
		CandidateID:    in.CandidateID,
		InterviewerIDs: append([]string{}, in.InterviewerIDs...),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Insert(ctx, iv); err != nil {
		return nil, fmt.Errorf("create interview: %w", err)
	}
	logger.Infof("interview %s created for candidate %s (call %s)", iv.ID, iv.CandidateID, iv.CallRef)
	s.publish(ctx, iv)
	return iv, nil
}

func (s *Service) ListAll(ctx context.Context) ([]*models.Interview, error) {
	return s.repo.List(ctx)
}

// ListForCandidate filters in the store, never after loading everything.
func (s *Service) ListForCandidate(ctx context.Context, candidateID string) ([]*models.Interview, error) {
	if candidateID == "" {
		return []*models.Interview{}, nil
	}
	return s.repo.ListByCandidate(ctx, candidateID)
}

// Get returns nil, nil when the interview does not exist.
func (s *Service) Get(ctx context.Context, id string) (*models.Interview, error) {
	if id == "" {
		return nil, nil
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByCallRef(ctx context.Context, callRef string) (*models.Interview, error) {
	if callRef == "" {
		return nil, nil
	}
	return s.repo.GetByCallRef(ctx, callRef)
}

// UpdateStatus overwrites the stored status. With StrictTransitions the
// move must follow the lifecycle; rewriting the current status is allowed.
func (s *Service) UpdateStatus(ctx context.Context, id string, st models.Status) (*models.Interview, error) {
	if strings.TrimSpace(string(st)) == "" {
		return nil, models.NewValidationError("status", "is required")
	}
	iv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load interview %s: %w", id, err)
	}
	if iv == nil {
		return nil, fmt.Errorf("interview %s: %w", id, models.ErrNotFound)
	}
	if s.opts.StrictTransitions && !CanTransition(iv.Status, st) {
		return nil, fmt.Errorf("%s -> %s: %w", iv.Status, st, models.ErrIllegalTransition)
	}
	// in strict mode the write only lands if the status checked above is
	// still the stored one
	var from models.Status
	if s.opts.StrictTransitions {
		from = iv.Status
	}
	ok, err := s.repo.SetStatus(ctx, id, from, st)
	if err != nil {
		return nil, fmt.Errorf("update interview %s: %w", id, err)
	}
	if !ok {
		if from != "" {
			current, gerr := s.repo.Get(ctx, id)
			if gerr == nil && current != nil {
				return nil, fmt.Errorf("%s -> %s: status changed concurrently to %s: %w", from, st, current.Status, models.ErrIllegalTransition)
			}
		}
		return nil, fmt.Errorf("interview %s: %w", id, models.ErrNotFound)
	}
	metrics.InterviewStatusUpdates.WithLabelValues(string(st)).Inc()
	logger.Infof("interview %s status %s -> %s", id, iv.Status, st)
	iv.Status = st
	s.publish(ctx, iv)
	return iv, nil
}

// Delete removes an interview; scheduling uses it to roll back.
func (s *Service) Delete(ctx context.Context, id string) error {
	iv, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if iv == nil {
		return nil
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete interview %s: %w", id, err)
	}
	logger.Warnf("interview %s deleted", id)
	s.publish(ctx, iv)
	return nil
}

func (s *Service) publish(ctx context.Context, iv *models.Interview) {
	s.pub.Publish(ctx,
		realtime.TopicInterviews,
		realtime.CandidateInterviewsTopic(iv.CandidateID),
		realtime.InterviewTopic(iv.ID),
	)
}
