package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"backoffice/internal/events"
	"backoffice/internal/model"
	"backoffice/pkg/metrics"
	"backoffice/pkg/util"
)

var ErrEmailTaken = errors.New("email already exists")
var ErrUserNotFound = errors.New("user not found")

// AdminService performs the privileged user mutations: create, delete,
// password reset. Handlers gate these behind the user:manage permission.
type AdminService struct {
	users  UserStore
	pub    Publisher
	logger *zap.Logger
}

func NewAdminService(users UserStore, pub Publisher, logger *zap.Logger) *AdminService {
	return &AdminService{
		users:  users,
		pub:    pub,
		logger: logger,
	}
}

func (s *AdminService) CreateUser(ctx context.Context, actor int, email, password, displayName, role string) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         role,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.Int("id", u.ID),
		zap.String("email", u.Email),
		zap.String("role", u.Role),
	)
	s.publish(events.UserCreated, events.NewEnvelope(actor, u.Email, u.Role))

	return u, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, actor, userID int) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("User deleted",
		zap.Int("id", userID),
		zap.String("email", u.Email),
	)
	s.publish(events.UserDeleted, events.NewEnvelope(actor, u.Email, ""))

	return nil
}

func (s *AdminService) ResetPassword(ctx context.Context, userID int, newPassword string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	s.logger.Info("Password reset", zap.Int("id", userID))
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) publish(routingKey string, env events.Envelope) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(routingKey, env); err != nil {
		metrics.IncrementEventPublished(routingKey, "failed")
		s.logger.Error("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.String("event_id", env.EventID),
			zap.Error(err),
		)
		return
	}
	metrics.IncrementEventPublished(routingKey, "success")
}
