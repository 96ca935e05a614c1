package interviews

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
	"github.com/blesswrld/codesync/backend/go-services/internal/realtime"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(ctx context.Context, topics ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topics...)
}

func newService(strict bool) (*Service, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewService(NewMemoryRepo(), pub, Options{StrictTransitions: strict}), pub
}

func input(candidate, callRef string, start time.Time) CreateInput {
	return CreateInput{
		Title:          "Backend interview",
		StartTime:      start,
		CandidateID:    candidate,
		InterviewerIDs: []string{"user_I"},
		CallRef:        callRef,
	}
}

func TestCreate_StatusUpcoming(t *testing.T) {
	svc, pub := newService(false)
	ctx := context.Background()

	iv, err := svc.Create(ctx, input("user_C", "call-1", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, models.StatusUpcoming, iv.Status)
	assert.NotEmpty(t, iv.ID)
	assert.Contains(t, pub.topics, realtime.TopicInterviews)
	assert.Contains(t, pub.topics, realtime.CandidateInterviewsTopic("user_C"))

	got, err := svc.Get(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, iv.Title, got.Title)

	byCall, err := svc.GetByCallRef(ctx, "call-1")
	require.NoError(t, err)
	require.NotNil(t, byCall)
	assert.Equal(t, iv.ID, byCall.ID)
}

func TestCreate_DuplicateCallRef(t *testing.T) {
	svc, _ := newService(false)
	ctx := context.Background()
	_, err := svc.Create(ctx, input("user_C", "call-1", time.Now()))
	require.NoError(t, err)

	_, err = svc.Create(ctx, input("user_D", "call-1", time.Now()))
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestGet_AbsentIsNil(t *testing.T) {
	svc, _ := newService(false)
	iv, err := svc.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, iv)
}

func TestListForCandidate_OnlyOwnInterviews(t *testing.T) {
	svc, _ := newService(false)
	ctx := context.Background()
	base := time.Now()
	for i := 0; i < 6; i++ {
		cand := "user_C"
		if i%2 == 1 {
			cand = "user_D"
		}
		_, err := svc.Create(ctx, input(cand, fmt.Sprintf("call-%d", i), base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	mine, err := svc.ListForCandidate(ctx, "user_C")
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	for _, iv := range mine {
		assert.Equal(t, "user_C", iv.CandidateID)
	}

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].StartTime.Before(all[i-1].StartTime))
	}

	none, err := svc.ListForCandidate(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateStatus_LaxOverwrites(t *testing.T) {
	svc, _ := newService(false)
	ctx := context.Background()
	iv, err := svc.Create(ctx, input("user_C", "call-1", time.Now()))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, iv.ID, models.StatusSucceeded)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSucceeded, updated.Status)

	got, _ := svc.Get(ctx, iv.ID)
	assert.Equal(t, models.StatusSucceeded, got.Status)
}

func TestUpdateStatus_Strict(t *testing.T) {
	svc, _ := newService(true)
	ctx := context.Background()
	iv, err := svc.Create(ctx, input("user_C", "call-1", time.Now()))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, iv.ID, models.StatusFailed)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)

	_, err = svc.UpdateStatus(ctx, iv.ID, models.StatusUpcoming)
	assert.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, iv.ID, models.StatusCompleted)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, iv.ID, models.StatusFailed)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, iv.ID, models.StatusSucceeded)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
}

// gatedRepo holds the first n Get calls until all n have arrived, so the
// callers read the same status before any of them writes.
type gatedRepo struct {
	*MemoryRepo
	mu      sync.Mutex
	arrived int
	n       int
	all     chan struct{}
}

func (g *gatedRepo) Get(ctx context.Context, id string) (*models.Interview, error) {
	iv, err := g.MemoryRepo.Get(ctx, id)
	g.mu.Lock()
	g.arrived++
	if g.arrived == g.n {
		close(g.all)
	}
	wait := g.arrived <= g.n
	g.mu.Unlock()
	if wait {
		<-g.all
	}
	return iv, err
}

func TestUpdateStatus_StrictConcurrentOutcomes(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryRepo()
	seed := NewService(mem, nil, Options{})
	iv, err := seed.Create(ctx, input("user_C", "call-1", time.Now()))
	require.NoError(t, err)
	_, err = seed.UpdateStatus(ctx, iv.ID, models.StatusCompleted)
	require.NoError(t, err)

	svc := NewService(&gatedRepo{MemoryRepo: mem, n: 2, all: make(chan struct{})}, nil, Options{StrictTransitions: true})
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, st := range []models.Status{models.StatusSucceeded, models.StatusFailed} {
		wg.Add(1)
		go func(i int, st models.Status) {
			defer wg.Done()
			_, errs[i] = svc.UpdateStatus(ctx, iv.ID, st)
		}(i, st)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, models.ErrIllegalTransition)
	}
	assert.Equal(t, 1, won)
}

func TestMemoryRepo_SetStatusPrecondition(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	require.NoError(t, repo.Insert(ctx, &models.Interview{ID: "iv-1", CallRef: "call-1", Status: models.StatusCompleted}))

	ok, err := repo.SetStatus(ctx, "iv-1", models.StatusUpcoming, models.StatusFailed)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.SetStatus(ctx, "iv-1", models.StatusCompleted, models.StatusFailed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetStatus(ctx, "iv-1", "", models.StatusSucceeded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateStatus_Errors(t *testing.T) {
	svc, _ := newService(false)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, "missing", models.StatusCompleted)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.UpdateStatus(ctx, "missing", " ")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestDelete(t *testing.T) {
	svc, _ := newService(false)
	ctx := context.Background()
	iv, err := svc.Create(ctx, input("user_C", "call-1", time.Now()))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, iv.ID))
	got, err := svc.Get(ctx, iv.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, svc.Delete(ctx, iv.ID))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.StatusUpcoming, models.StatusCompleted))
	assert.True(t, CanTransition(models.StatusCompleted, models.StatusSucceeded))
	assert.True(t, CanTransition(models.StatusCompleted, models.StatusFailed))
	assert.True(t, CanTransition(models.StatusFailed, models.StatusFailed))
	assert.False(t, CanTransition(models.StatusUpcoming, models.StatusSucceeded))
	assert.False(t, CanTransition(models.StatusSucceeded, models.StatusFailed))
}
