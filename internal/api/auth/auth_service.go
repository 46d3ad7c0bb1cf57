package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rfcarvalho/go-blog-backend/config"
	"github.com/rfcarvalho/go-blog-backend/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	// Register hashes the password and creates a new account.
	Register(ctx context.Context, username, email, password string) (*types.User, error)

	// Login verifies the credentials and mints a bearer token for the user.
	Login(ctx context.Context, email, password string) (*types.User, string, error)

	// DeleteAccount removes the account and returns the removed record.
	DeleteAccount(ctx context.Context, userID string) (*types.User, error)
}

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwtCfg config.JWTConfig
}

// NewAuthService creates a new AuthService. The signing secret is read-only
// after construction; nothing else in the service is mutable.
func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
	}
}

// Register hashes the password with bcrypt (random salt per call) and
// persists the account. Email is normalized to lowercase before storage so
// the unique index catches case-variant duplicates.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (*types.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, username, normalizeEmail(email), string(hashedPassword))
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User registered", slog.String("userID", user.ID))
	return user, nil
}

// Login fetches the account and verifies the password. The hash comparison
// is bcrypt's constant-time digest compare; a malformed stored hash fails
// verification rather than erroring out differently.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("login lookup failed: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, "", fmt.Errorf("invalid password: %w", types.ErrUnauthenticated)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return user, token, nil
}

// DeleteAccount removes the user record. Tokens already minted for the
// account stay valid until natural expiry; tokens are stateless and there is
// no revocation list.
func (s *AuthServiceImpl) DeleteAccount(ctx context.Context, userID string) (*types.User, error) {
	user, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User account deleted", slog.String("userID", user.ID))
	return user, nil
}

// issueToken mints an HS256 token whose subject is the user id, expiring
// after the configured TTL.
func (s *AuthServiceImpl) issueToken(user *types.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
