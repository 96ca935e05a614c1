package interviews

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
)

// MemoryRepo is an in-memory Repository for development and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*models.Interview
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*models.Interview)}
}

func clone(iv *models.Interview) *models.Interview {
	cp := *iv
	cp.InterviewerIDs = append([]string(nil), iv.InterviewerIDs...)
	return &cp
}

func (m *MemoryRepo) Insert(ctx context.Context, iv *models.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[iv.ID]; ok {
		return fmt.Errorf("interview %s exists: %w", iv.ID, models.ErrConflict)
	}
	for _, existing := range m.store {
		if existing.CallRef == iv.CallRef {
			return fmt.Errorf("call reference %q already used: %w", iv.CallRef, models.ErrConflict)
		}
	}
	m.store[iv.ID] = clone(iv)
	return nil
}

func (m *MemoryRepo) filter(keep func(*models.Interview) bool) []*models.Interview {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*models.Interview{}
	for _, iv := range m.store {
		if keep(iv) {
			out = append(out, clone(iv))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func (m *MemoryRepo) List(ctx context.Context) ([]*models.Interview, error) {
	return m.filter(func(*models.Interview) bool { return true }), nil
}

func (m *MemoryRepo) ListByCandidate(ctx context.Context, candidateID string) ([]*models.Interview, error) {
	return m.filter(func(iv *models.Interview) bool { return iv.CandidateID == candidateID }), nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*models.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if iv, ok := m.store[id]; ok {
		return clone(iv), nil
	}
	return nil, nil
}

func (m *MemoryRepo) GetByCallRef(ctx context.Context, callRef string) (*models.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, iv := range m.store {
		if iv.CallRef == callRef {
			return clone(iv), nil
		}
	}
	return nil, nil
}

func (m *MemoryRepo) SetStatus(ctx context.Context, id string, from, to models.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.store[id]
	if !ok || (from != "" && iv.Status != from) {
		return false, nil
	}
	iv.Status = to
	iv.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return false, nil
	}
	delete(m.store, id)
	return true, nil
}
