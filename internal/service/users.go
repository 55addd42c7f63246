package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/infra/observability"
	"github.com/fintrack-app/fintrack-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var userTracer = otel.Tracer("service/users")

// UserService manages profile documents keyed by the external identity
// id. Profiles are auto-provisioned on first authenticated access and
// cached so the auth middleware does not hit the store per request.
type UserService struct {
	users   port.UserStore
	cache   port.Cache[*domain.User]
	media   port.MediaUploader
	bucket  string
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(users port.UserStore, cache port.Cache[*domain.User], media port.MediaUploader, bucket string, metrics *observability.Metrics, logger *zap.Logger) *UserService {
	return &UserService{users: users, cache: cache, media: media, bucket: bucket, metrics: metrics, logger: logger}
}

// EnsureUser returns the profile for identity, creating it on first
// access.
func (s *UserService) EnsureUser(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	ctx, span := userTracer.Start(ctx, "UserService.EnsureUser")
	defer span.End()

	if u, ok := s.cache.Get(identity.OwnerID); ok {
		s.metrics.IncrCacheHit("user")
		return u, nil
	}
	s.metrics.IncrCacheMiss("user")

	u, err := s.users.GetUser(ctx, identity.OwnerID)
	var notFound *domain.ErrNotFound
	if errors.As(err, &notFound) {
		now := time.Now().UTC()
		u = &domain.User{
			ID:        identity.OwnerID,
			Email:     identity.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.users.UpsertUser(ctx, u); err != nil {
			return nil, err
		}
		s.logger.Info("user auto-provisioned", zap.String("user_id", u.ID))
	} else if err != nil {
		return nil, err
	}

	s.cache.Set(identity.OwnerID, u)
	return u, nil
}

// UpdateUser edits the profile's mutable fields.
func (s *UserService) UpdateUser(ctx context.Context, identity *domain.Identity, req domain.UpdateUserRequest) (*domain.User, error) {
	ctx, span := userTracer.Start(ctx, "UserService.UpdateUser")
	defer span.End()

	u, err := s.EnsureUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.users.UpsertUser(ctx, u); err != nil {
		return nil, err
	}
	s.cache.Set(u.ID, u)
	return u, nil
}

// SetAvatar uploads the image to the object store and records its public
// URL on the profile.
func (s *UserService) SetAvatar(ctx context.Context, identity *domain.Identity, contentType string, data []byte) (*domain.User, error) {
	ctx, span := userTracer.Start(ctx, "UserService.SetAvatar")
	defer span.End()

	if len(data) == 0 {
		return nil, &domain.ErrValidation{Field: "file", Message: "file is empty"}
	}

	u, err := s.EnsureUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	objectPath := fmt.Sprintf("%s/avatar", u.ID)
	url, err := s.media.Upload(ctx, s.bucket, objectPath, contentType, data)
	if err != nil {
		s.metrics.IncrExternalError("storage")
		return nil, err
	}

	u.AvatarURL = url
	u.UpdatedAt = time.Now().UTC()
	if err := s.users.UpsertUser(ctx, u); err != nil {
		return nil, err
	}
	s.cache.Set(u.ID, u)
	return u, nil
}
