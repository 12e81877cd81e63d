package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this username or email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid username, email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrInvalidAccessToken   = errors.New("invalid or expired token")
	ErrInvalidCredentials   = errors.New("username, email and a password of at least 6 characters are required")
)

const (
	minPasswordLength = 6
	refreshTokenBytes = 32
	tokenIssuer       = "fitcycle"
)

// TokenPair is what a successful login, registration or refresh hands out.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// Claims defines the structure of the JWT payload.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Register creates a standard account and signs it in.
	Register(ctx context.Context, username, email, password string) (*TokenPair, *domain.User, error)
	// Login accepts either the username or the email as identifier.
	Login(ctx context.Context, identifier, password string) (*TokenPair, *domain.User, error)
	// Refresh exchanges a refresh token for a new pair; the old token stops working.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	ParseAccessToken(token string) (*Claims, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo          repository.UserRepository
	jwtSecret         string
	jwtExpiration     time.Duration
	refreshExpiration time.Duration
	now               func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration, refreshExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	if refreshExpiration <= 0 {
		refreshExpiration = 30 * 24 * time.Hour
	}
	return &authService{
		userRepo:          userRepo,
		jwtSecret:         jwtSecret,
		jwtExpiration:     jwtExpiration,
		refreshExpiration: refreshExpiration,
		now:               time.Now,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}

// Usernames may not contain '@' so a login identifier is never ambiguous.
func validIdentity(username, email string) bool {
	return strings.TrimSpace(username) != "" &&
		!strings.Contains(username, "@") &&
		strings.Contains(email, "@")
}

func validCredentials(username, email, password string) bool {
	return validIdentity(username, email) && len(password) >= minPasswordLength
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, username, email, password string) (*TokenPair, *domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if !validCredentials(username, email, password) {
		return nil, nil, ErrInvalidCredentials
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleStandard,
	}
	// Unique indexes on username and email catch concurrent registrations.
	if _, err = s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrUserAlreadyExists
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = ""
	return tokens, user, nil
}

// Login handles user authentication and token issuance.
func (s *authService) Login(ctx context.Context, identifier, password string) (*TokenPair, *domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, nil, ErrAuthenticationFailed
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrAuthenticationFailed
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrAuthenticationFailed
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = ""
	return tokens, user, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, *domain.User, error) {
	if refreshToken == "" {
		return nil, nil, ErrInvalidRefreshToken
	}
	user, err := s.userRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidRefreshToken
		}
		return nil, nil, fmt.Errorf("find refresh token: %w", err)
	}
	if user.RefreshTokenExpiresAt == nil || !s.now().Before(*user.RefreshTokenExpiresAt) {
		return nil, nil, ErrInvalidRefreshToken
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = ""
	return tokens, user, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// issueTokens signs a new access token and rotates the stored refresh token.
func (s *authService) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	now := s.now()
	accessToken, expiresAt, err := s.generateJWT(user, now)
	if err != nil {
		return nil, ErrTokenGeneration
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, ErrTokenGeneration
	}
	refreshExpiresAt := now.Add(s.refreshExpiration)
	if err = s.userRepo.SetRefreshToken(ctx, user.ID, refreshToken, refreshExpiresAt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresAt:        expiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// generateJWT creates a new HS256 JWT for the given user.
func (s *authService) generateJWT(user *domain.User, now time.Time) (string, time.Time, error) {
	expirationTime := now.Add(s.jwtExpiration)
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signedToken, expirationTime, nil
}

func newRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ParseAccessToken validates the signature, the algorithm and the expiry.
func (s *authService) ParseAccessToken(tokenString string) (*Claims, error) {
	return ParseAccessToken(tokenString, s.jwtSecret)
}

// ParseAccessToken is shared with the auth middleware, which only holds the secret.
func ParseAccessToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidAccessToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidAccessToken
	}
	if _, ok := domain.ParseRole(string(claims.Role)); !ok {
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}
