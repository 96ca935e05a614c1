// Package scheduling creates interviews together with their video calls.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blesswrld/codesync/backend/go-services/internal/interviews"
	"github.com/blesswrld/codesync/backend/go-services/internal/models"
	"github.com/blesswrld/codesync/backend/go-services/internal/video"
	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
)

// Request is the scheduling form as submitted by the actor.
type Request struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	StartTime      time.Time `json:"startTime"`
	CandidateID    string    `json:"candidateId"`
	InterviewerIDs []string  `json:"interviewerIds"`
}

// UserLookup resolves identities to stored users.
type UserLookup interface {
	FindByIdentity(ctx context.Context, identity string) (*models.User, error)
}

// InterviewStore is the part of the interview service the scheduler writes to.
type InterviewStore interface {
	Create(ctx context.Context, in interviews.CreateInput) (*models.Interview, error)
}

type Scheduler struct {
	users      UserLookup
	interviews InterviewStore
	video      video.Provider
	newCallRef func() string
}

func NewScheduler(users UserLookup, store InterviewStore, provider video.Provider) *Scheduler {
	return &Scheduler{users: users, interviews: store, video: provider, newCallRef: uuid.NewString}
}

// Validate applies the scheduling policy that the interview store leaves to
// its callers.
func Validate(actor *models.User, req Request) error {
	if strings.TrimSpace(req.Title) == "" {
		return models.NewValidationError("title", "must not be empty")
	}
	if strings.TrimSpace(req.CandidateID) == "" {
		return models.NewValidationError("candidateId", "is required")
	}
	if req.StartTime.IsZero() {
		return models.NewValidationError("startTime", "is required")
	}
	if actor.IsInterviewer() && len(dedupe(req.InterviewerIDs)) == 0 {
		return models.NewValidationError("interviewerIds", "at least one interviewer is required")
	}
	return nil
}

// Schedule allocates a call with the provider and stores the interview. A
// store failure deletes the call again so neither side is left half-created.
func (s *Scheduler) Schedule(ctx context.Context, actor *models.User, req Request) (*models.Interview, error) {
	if actor == nil {
		return nil, fmt.Errorf("schedule: %w", models.ErrForbidden)
	}
	if err := Validate(actor, req); err != nil {
		return nil, err
	}
	candidate, err := s.users.FindByIdentity(ctx, req.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("lookup candidate: %w", err)
	}
	if candidate == nil || candidate.Role != models.RoleCandidate {
		return nil, models.NewValidationError("candidateId", "must reference an existing candidate")
	}

	interviewerIDs := dedupe(req.InterviewerIDs)
	callRef := s.newCallRef()
	details := video.CallDetails{
		CreatedBy:   actor.Identity,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartsAt:    req.StartTime,
		Members:     append([]string{req.CandidateID}, interviewerIDs...),
	}
	if err := s.video.CreateCall(ctx, callRef, details); err != nil {
		logger.Errorf("schedule: create call %s: %v", callRef, err)
		return nil, fmt.Errorf("%w: %v", models.ErrProvider, err)
	}

	iv, err := s.interviews.Create(ctx, interviews.CreateInput{
		Title:          req.Title,
		Description:    req.Description,
		StartTime:      req.StartTime,
		CandidateID:    req.CandidateID,
		InterviewerIDs: interviewerIDs,
		CallRef:        callRef,
	})
	if err != nil {
		// the context may be what failed the write; the cleanup gets its own
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if derr := s.video.DeleteCall(cctx, callRef); derr != nil {
			logger.Errorf("schedule: rollback of call %s failed: %v", callRef, derr)
			return nil, errors.Join(err, fmt.Errorf("rollback call %s: %w", callRef, derr))
		}
		logger.Warnf("schedule: interview write failed, call %s deleted: %v", callRef, err)
		return nil, err
	}
	return iv, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
