package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
)

// MemoryRepo is an in-memory UserRepository used when no MongoDB is
// configured and in unit tests. A single mutex serializes writes, which makes
// lookup-then-write atomic per identity.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*models.User // keyed by row id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*models.User)}
}

// find returns the unique row for identity. Callers hold mu.
func (m *MemoryRepo) find(identity string) (*models.User, error) {
	var found *models.User
	for _, u := range m.store {
		if u.Identity != identity {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("identity %q stored twice: %w", identity, models.ErrConflict)
		}
		found = u
	}
	return found, nil
}

func (m *MemoryRepo) UpsertByIdentity(ctx context.Context, p Profile) (*models.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, err := m.find(p.Identity)
	if err != nil {
		return nil, false, err
	}
	now := time.Now().UTC()
	image := ""
	if p.Image != nil {
		image = *p.Image
	}
	if existing != nil {
		existing.Email = p.Email
		existing.Name = p.Name
		existing.Image = image
		if p.Role != nil {
			existing.Role = *p.Role
		}
		existing.UpdatedAt = now
		cp := *existing
		return &cp, false, nil
	}
	role := models.RoleCandidate
	if p.Role != nil {
		role = *p.Role
	}
	u := &models.User{
		ID:        uuid.NewString(),
		Identity:  p.Identity,
		Email:     p.Email,
		Name:      p.Name,
		Image:     image,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.store[u.ID] = u
	cp := *u
	return &cp, true, nil
}

func (m *MemoryRepo) PatchByIdentity(ctx context.Context, identity string, p Patch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.find(identity)
	if err != nil || u == nil {
		return false, err
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Image != nil {
		u.Image = *p.Image
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	u.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *MemoryRepo) DeleteByIdentity(ctx context.Context, identity string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.find(identity)
	if err != nil || u == nil {
		return false, err
	}
	delete(m.store, u.ID)
	return true, nil
}

func (m *MemoryRepo) GetByIdentity(ctx context.Context, identity string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, err := m.find(identity)
	if err != nil || u == nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryRepo) List(ctx context.Context) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.User, 0, len(m.store))
	for _, u := range m.store {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}
