package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository/memory"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSecret = "test-secret"

type AuthServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	service *authService
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	store := memory.NewStore()
	s.service = NewAuthService(store.Users, testSecret, 15*time.Minute, time.Hour).(*authService)
}

func fakeUsername() string {
	return strings.ReplaceAll(gofakeit.Username(), "@", "") + gofakeit.DigitN(4)
}

func (s *AuthServiceTestSuite) register() (username, email, password string, user *domain.User) {
	username = fakeUsername()
	email = gofakeit.Email()
	password = gofakeit.Password(true, true, true, false, false, 12)
	_, user, err := s.service.Register(s.ctx, username, email, password)
	s.Require().NoError(err)
	return username, email, password, user
}

func (s *AuthServiceTestSuite) TestRegister() {
	username := fakeUsername()
	tokens, user, err := s.service.Register(s.ctx, "  "+username+" ", "Mixed.Case@Example.com", "secret123")
	s.Require().NoError(err)

	s.Equal(username, user.Username)
	s.Equal("mixed.case@example.com", user.Email)
	s.Equal(domain.RoleStandard, user.Role)
	s.Empty(user.PasswordHash)
	s.NotEmpty(tokens.AccessToken)
	s.Len(tokens.RefreshToken, 2*refreshTokenBytes)

	claims, err := s.service.ParseAccessToken(tokens.AccessToken)
	s.Require().NoError(err)
	s.Equal(user.ID, claims.UserID)
	s.Equal(domain.RoleStandard, claims.Role)
}

func (s *AuthServiceTestSuite) TestRegister_Validation() {
	_, _, err := s.service.Register(s.ctx, "", "a@b.c", "secret123")
	s.ErrorIs(err, ErrInvalidCredentials)
	_, _, err = s.service.Register(s.ctx, "has@sign", "a@b.c", "secret123")
	s.ErrorIs(err, ErrInvalidCredentials)
	_, _, err = s.service.Register(s.ctx, "sam", "not-an-email", "secret123")
	s.ErrorIs(err, ErrInvalidCredentials)
	_, _, err = s.service.Register(s.ctx, "sam", "sam@example.com", "short")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestRegister_Duplicate() {
	username, email, _, _ := s.register()

	_, _, err := s.service.Register(s.ctx, username, gofakeit.Email(), "secret123")
	s.ErrorIs(err, ErrUserAlreadyExists)
	_, _, err = s.service.Register(s.ctx, fakeUsername(), email, "secret123")
	s.ErrorIs(err, ErrUserAlreadyExists)
}

func (s *AuthServiceTestSuite) TestLogin_UsernameOrEmail() {
	username, email, password, user := s.register()

	_, byName, err := s.service.Login(s.ctx, username, password)
	s.Require().NoError(err)
	s.Equal(user.ID, byName.ID)

	_, byEmail, err := s.service.Login(s.ctx, strings.ToUpper(email), password)
	s.Require().NoError(err)
	s.Equal(user.ID, byEmail.ID)

	_, _, err = s.service.Login(s.ctx, username, password+"x")
	s.ErrorIs(err, ErrAuthenticationFailed)
	_, _, err = s.service.Login(s.ctx, "nobody", password)
	s.ErrorIs(err, ErrAuthenticationFailed)
	_, _, err = s.service.Login(s.ctx, "", "")
	s.ErrorIs(err, ErrAuthenticationFailed)
}

func (s *AuthServiceTestSuite) TestRefresh_RotatesToken() {
	username, _, password, user := s.register()
	first, _, err := s.service.Login(s.ctx, username, password)
	s.Require().NoError(err)

	second, refreshed, err := s.service.Refresh(s.ctx, first.RefreshToken)
	s.Require().NoError(err)
	s.Equal(user.ID, refreshed.ID)
	s.NotEqual(first.RefreshToken, second.RefreshToken)

	_, _, err = s.service.Refresh(s.ctx, first.RefreshToken)
	s.ErrorIs(err, ErrInvalidRefreshToken)
	_, _, err = s.service.Refresh(s.ctx, "")
	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceTestSuite) TestRefresh_Expired() {
	username, _, password, _ := s.register()
	tokens, _, err := s.service.Login(s.ctx, username, password)
	s.Require().NoError(err)

	s.service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, _, err = s.service.Refresh(s.ctx, tokens.RefreshToken)
	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceTestSuite) TestMe() {
	_, _, _, user := s.register()

	me, err := s.service.Me(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user.Username, me.Username)
	s.Empty(me.PasswordHash)

	_, err = s.service.Me(s.ctx, "missing")
	s.ErrorIs(err, ErrUserNotFound)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	sign := func(method jwt.SigningMethod, key interface{}, claims *Claims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	valid := func() *Claims {
		return &Claims{
			UserID: "u1",
			Role:   domain.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
	}

	claims, err := ParseAccessToken(sign(jwt.SigningMethodHS256, []byte(testSecret), valid()), testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)

	_, err = ParseAccessToken(sign(jwt.SigningMethodHS256, []byte("other"), valid()), testSecret)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err = ParseAccessToken(sign(jwt.SigningMethodHS256, []byte(testSecret), expired), testSecret)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)

	badRole := valid()
	badRole.Role = "root"
	_, err = ParseAccessToken(sign(jwt.SigningMethodHS256, []byte(testSecret), badRole), testSecret)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)

	_, err = ParseAccessToken(sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid()), testSecret)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)

	_, err = ParseAccessToken("garbage", testSecret)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}
