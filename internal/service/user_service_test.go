package service

import (
	"context"
	"testing"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"
	"fitcycle/server/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_CreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repoMock)

	repoMock.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *domain.User) (string, error) {
			assert.Equal(t, "coach", u.Username)
			assert.Equal(t, "coach@example.com", u.Email)
			assert.Equal(t, domain.RoleAdmin, u.Role)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))
			u.ID = "u1"
			return u.ID, nil
		}).Times(1)

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "coach",
		Email:    "Coach@Example.com",
		Password: "secret123",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestUserService_CreateUser_Rejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repoMock)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Username: "a", Email: "a@b.c", Password: "secret123", Role: "owner"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "a", Email: "a@b.c", Password: "123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return("", repository.ErrDuplicate)
	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "a", Email: "a@b.c", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUserService_UpdateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repoMock)
	ctx := context.Background()

	existing := &domain.User{ID: "u1", Username: "sam", Email: "sam@example.com", PasswordHash: "hash", Role: domain.RoleStandard}
	repoMock.EXPECT().GetByID(gomock.Any(), "u1").Return(existing, nil)
	repoMock.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *domain.User) error {
			assert.Equal(t, "sam", u.Username)
			assert.Equal(t, domain.RoleAdmin, u.Role)
			assert.Equal(t, "hash", u.PasswordHash)
			return nil
		})

	role := "admin"
	user, err := svc.UpdateUser(ctx, "u1", UpdateUserInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	repoMock.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, repository.ErrNotFound)
	_, err = svc.UpdateUser(ctx, "missing", UpdateUserInput{Role: &role})
	assert.ErrorIs(t, err, ErrUserNotFound)

	short := "123"
	repoMock.EXPECT().GetByID(gomock.Any(), "u1").Return(&domain.User{ID: "u1", Username: "sam", Email: "sam@example.com"}, nil)
	_, err = svc.UpdateUser(ctx, "u1", UpdateUserInput{Password: &short})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_DeleteUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repoMock)
	ctx := context.Background()

	// no repository call expected
	assert.ErrorIs(t, svc.DeleteUser(ctx, "root", "root"), ErrCannotDeleteSelf)

	repoMock.EXPECT().Delete(gomock.Any(), "u2").Return(nil)
	assert.NoError(t, svc.DeleteUser(ctx, "root", "u2"))

	repoMock.EXPECT().Delete(gomock.Any(), "u3").Return(repository.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteUser(ctx, "root", "u3"), ErrUserNotFound)
}

func TestUserService_EnsureSuperuser(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(repoMock)
	ctx := context.Background()

	repoMock.EXPECT().GetByUsername(gomock.Any(), "root").Return(&domain.User{ID: "r", Role: domain.RoleSuperuser}, nil)
	require.NoError(t, svc.EnsureSuperuser(ctx, "root", "root@example.com", "secret123"))

	repoMock.EXPECT().GetByUsername(gomock.Any(), "root").Return(nil, repository.ErrNotFound)
	repoMock.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *domain.User) (string, error) {
			assert.Equal(t, domain.RoleSuperuser, u.Role)
			return "r", nil
		})
	require.NoError(t, svc.EnsureSuperuser(ctx, "root", "root@example.com", "secret123"))
}
