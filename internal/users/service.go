package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
	"github.com/blesswrld/codesync/backend/go-services/internal/realtime"
	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
)

// Placeholders used when an update webhook arrives for a user we never saw.
const (
	PlaceholderEmail = "unknown_via_update@example.com"
	PlaceholderName  = "User (from update event)"
)

// SyncUserInput is the argument set of SyncUser.
type SyncUserInput struct {
	Identity string
	Email    string
	Name     string
	Image    *string
	Role     *models.Role
}

// WebhookUpdate is the partial profile carried by a user.updated event.
type WebhookUpdate = Patch

// Service encapsulates identity sync and directory lookups
type Service struct {
	repo UserRepository
	pub  realtime.Publisher
}

func NewService(r UserRepository, pub realtime.Publisher) *Service {
	if pub == nil {
		pub = realtime.NoOpPublisher{}
	}
	return &Service{repo: r, pub: pub}
}

// SyncUser is the idempotent upsert used on session start and by the
// user.created webhook. Profile fields are always refreshed; the role only
// changes when one is supplied and differs from the stored role.
func (s *Service) SyncUser(ctx context.Context, in SyncUserInput) (string, error) {
	if strings.TrimSpace(in.Identity) == "" {
		return "", models.NewValidationError("identity", "is required")
	}
	if in.Role != nil && !in.Role.Valid() {
		return "", models.NewValidationError("role", fmt.Sprintf("unknown role %q", *in.Role))
	}
	u, created, err := s.repo.UpsertByIdentity(ctx, Profile{
		Identity: in.Identity,
		Email:    in.Email,
		Name:     in.Name,
		Image:    in.Image,
		Role:     in.Role,
	})
	if err != nil {
		return "", fmt.Errorf("sync user %s: %w", in.Identity, err)
	}
	if created {
		logger.Infof("user %s created via syncUser with role %s", in.Identity, u.Role)
	} else {
		logger.Infof("user %s updated via syncUser", in.Identity)
	}
	s.pub.Publish(ctx, realtime.TopicUsers)
	return u.ID, nil
}

// UpdateFromWebhook applies a partial profile update from the identity
// provider. An unknown identity is created with placeholder fields and the
// candidate role; the role of a known user is never touched.
func (s *Service) UpdateFromWebhook(ctx context.Context, identity string, p WebhookUpdate) error {
	existing, err := s.repo.GetByIdentity(ctx, identity)
	if err != nil {
		return fmt.Errorf("lookup user %s: %w", identity, err)
	}
	if existing == nil {
		logger.Warnf("webhook: user %s not found for update, creating it", identity)
		role := models.RoleCandidate
		in := SyncUserInput{
			Identity: identity,
			Email:    PlaceholderEmail,
			Name:     PlaceholderName,
			Image:    p.Image,
			Role:     &role,
		}
		if p.Email != nil && *p.Email != "" {
			in.Email = *p.Email
		}
		if p.Name != nil && *p.Name != "" {
			in.Name = *p.Name
		}
		_, err := s.SyncUser(ctx, in)
		return err
	}

	if p.Empty() {
		logger.Infof("no data to update for user %s via updateUserWebhook", identity)
		return nil
	}
	if _, err := s.repo.PatchByIdentity(ctx, identity, p); err != nil {
		return fmt.Errorf("update user %s: %w", identity, err)
	}
	logger.Infof("user %s updated via updateUserWebhook", identity)
	s.pub.Publish(ctx, realtime.TopicUsers)
	return nil
}

// DeleteFromWebhook removes the user row. A missing user is a no-op.
func (s *Service) DeleteFromWebhook(ctx context.Context, identity string) error {
	deleted, err := s.repo.DeleteByIdentity(ctx, identity)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", identity, err)
	}
	if !deleted {
		logger.Warnf("webhook: user %s not found for deletion", identity)
		return nil
	}
	logger.Infof("user %s deleted via deleteUserWebhook", identity)
	s.pub.Publish(ctx, realtime.TopicUsers)
	return nil
}

// UpsertFromClaims registers the caller from verified OIDC claims and returns
// the stored user. It returns nil when the claims carry no subject.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, nil
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	in := SyncUserInput{Identity: sub, Email: email, Name: name}
	if pic, ok := claims["picture"].(string); ok && pic != "" {
		in.Image = &pic
	}
	if _, err := s.SyncUser(ctx, in); err != nil {
		return nil, err
	}
	return s.repo.GetByIdentity(ctx, sub)
}

// ListUsers returns every user. Callers must not depend on order.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

// FindByIdentity returns nil, nil when no user has that identity.
func (s *Service) FindByIdentity(ctx context.Context, identity string) (*models.User, error) {
	if identity == "" {
		return nil, nil
	}
	return s.repo.GetByIdentity(ctx, identity)
}
