package services

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"userapi/internal/apperrors"
	"userapi/internal/models"
	"userapi/internal/repositories"
	"userapi/internal/validators"
	"userapi/pkg/logger"
	"userapi/pkg/rabbitmq"
)

// UserService handles business logic for the user resource: uniqueness
// enforcement, password hashing and stripping, and pagination shaping.
type UserService struct {
	repo repositories.UserRepository
	mq   *rabbitmq.Client // optional; nil disables event publishing
}

// NewUserService creates a new UserService. mq may be nil.
func NewUserService(repo repositories.UserRepository, mq *rabbitmq.Client) *UserService {
	return &UserService{
		repo: repo,
		mq:   mq,
	}
}

// FindAll returns one page of users matching the query, newest first, with
// passwords stripped and pagination metadata derived from the total count.
func (s *UserService) FindAll(q validators.ListUsersQuery) (*models.UserPage, error) {
	users, total, err := s.repo.List(q)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return &models.UserPage{
		Users:      users,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}, nil
}

// FindByID returns a single user or a not-found error.
func (s *UserService) FindByID(id string) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("User with ID %s not found", id))
	}
	user.Password = ""
	return user, nil
}

// Create inserts a new user after checking that the email is free. The
// pre-check only improves the error message; the unique index on email is
// what actually prevents concurrent duplicates.
func (s *UserService) Create(req *validators.CreateUserRequest) (*models.User, error) {
	existing, err := s.repo.GetByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("User with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hash),
		IsActive: true,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	s.publish(rabbitmq.ActionUserCreated, user)
	user.Password = ""
	return user, nil
}

// Update applies a partial update after reverifying existence and, when the
// email changes, that no other user owns it. The read-then-write pair is not
// wrapped in a transaction; a concurrent delete between the two statements
// surfaces as an update error rather than a not-found.
func (s *UserService) Update(id string, req *validators.UpdateUserRequest) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("User with ID %s not found", id))
	}

	if req.Email != nil && *req.Email != user.Email {
		other, err := s.repo.GetByEmailExcept(*req.Email, id)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, apperrors.Conflict("User with this email already exists")
		}
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hash)
	}

	// Save writes the full row, so an empty payload still bumps UpdatedAt.
	if err := s.repo.Save(user); err != nil {
		return nil, err
	}

	s.publish(rabbitmq.ActionUserUpdated, user)
	user.Password = ""
	return user, nil
}

// Delete removes a user after reverifying existence.
func (s *UserService) Delete(id string) error {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound(fmt.Sprintf("User with ID %s not found", id))
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.publish(rabbitmq.ActionUserDeleted, user)
	return nil
}

// publish emits a lifecycle event. Publishing is best-effort: a broker
// failure is logged and never surfaced to the API caller.
func (s *UserService) publish(action string, user *models.User) {
	if s.mq == nil {
		return
	}
	event := rabbitmq.UserEvent{
		Action: action,
		UserID: user.ID,
		Email:  user.Email,
		At:     time.Now(),
	}
	if err := s.mq.PublishUserEvent(event); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Str("action", action).Str("user_id", user.ID).Msg("failed to publish user event")
	}
}
