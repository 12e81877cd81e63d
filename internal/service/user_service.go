package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	log "github.com/sirupsen/logrus"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidRole      = errors.New("invalid role")
	ErrCannotDeleteSelf = errors.New("you cannot delete your own account")
)

// CreateUserInput carries an admin-created account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput carries a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
}

// UserService is the superuser-only account management.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, actorID, id string) error
	// EnsureSuperuser creates the account unless the username is already taken.
	EnsureSuperuser(ctx context.Context, username, email, password string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func sanitize(users []domain.User) []domain.User {
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return sanitize(users), nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	role := domain.RoleStandard
	if input.Role != "" {
		parsed, ok := domain.ParseRole(input.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		role = parsed
	}

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !validCredentials(username, email, input.Password) {
		return nil, ErrInvalidCredentials
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	if _, err = s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Role != nil {
		role, ok := domain.ParseRole(*input.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}

	if !validIdentity(user.Username, user.Email) {
		return nil, ErrInvalidCredentials
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, ErrInvalidCredentials
		}
		if user.PasswordHash, err = hashPassword(*input.Password); err != nil {
			return nil, err
		}
	}

	if err = s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUserAlreadyExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *userService) EnsureSuperuser(ctx context.Context, username, email, password string) error {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		if !existing.IsSuperuser() {
			log.Warnf("bootstrap user %q exists without the superuser role, leaving it unchanged", username)
		}
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("find bootstrap user: %w", err)
	}

	_, err = s.CreateUser(ctx, CreateUserInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     string(domain.RoleSuperuser),
	})
	if err != nil {
		return fmt.Errorf("create bootstrap superuser: %w", err)
	}
	log.Infof("bootstrap superuser %q created", username)
	return nil
}
