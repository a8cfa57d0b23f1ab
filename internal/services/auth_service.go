package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskcove/task-tracker-api/internal/cache"
	"github.com/taskcove/task-tracker-api/internal/constants"
	"github.com/taskcove/task-tracker-api/internal/models"
	"github.com/taskcove/task-tracker-api/internal/repository"
	"github.com/taskcove/task-tracker-api/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrUsernameRequired     = errors.New("username is required")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService is the identity provider: it owns user records and issues and
// resolves opaque bearer tokens.
type AuthService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	tokenCache *cache.TokenCache
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService. tokenCache may be nil, in which
// case every resolution goes to the token store.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, tokenCache *cache.TokenCache, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		tokenCache: tokenCache,
		logger:     logger,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// Register creates a new user and logs them in, returning the issued token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, "", ErrUsernameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and issues a fresh token. Any previously issued
// tokens for the user are revoked first: one active session per user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// ResolveToken maps a bearer token back to a user ID. Unknown, revoked and
// expired tokens all resolve to ErrInvalidToken.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (uint64, error) {
	digest := utils.TokenDigest(token)
	now := time.Now()

	if s.tokenCache != nil {
		entry, hit, err := s.tokenCache.Get(ctx, digest)
		if err != nil {
			s.logger.Warn("token cache lookup failed", zap.Error(err))
		} else if hit {
			if entry.ExpiresAt.After(now) {
				return entry.UserID, nil
			}
			return 0, ErrInvalidToken
		}
	}

	record, err := s.tokenRepo.FindByDigest(digest)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidToken
		}
		return 0, fmt.Errorf("failed to look up token: %w", err)
	}

	if record.IsExpired(now) {
		if err := s.tokenRepo.DeleteExpired(now); err != nil {
			s.logger.Warn("failed to prune expired tokens", zap.Error(err))
		}
		return 0, ErrInvalidToken
	}

	if s.tokenCache != nil {
		entry := cache.Entry{UserID: record.UserID, ExpiresAt: record.ExpiresAt}
		if err := s.tokenCache.Set(ctx, digest, entry); err != nil {
			s.logger.Warn("token cache store failed", zap.Error(err))
		}
	}

	return record.UserID, nil
}

// Logout revokes every token issued to the user.
func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	return s.revokeTokens(ctx, userID)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// DeleteAccount removes the user, their tokens, and cascades their tasks:
// created tasks are deleted, assigned tasks keep living with the assignee
// cleared.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uint64) error {
	if err := s.revokeTokens(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return nil
}

// issueToken revokes the user's existing tokens and persists a new one.
func (s *AuthService) issueToken(ctx context.Context, userID uint64) (string, error) {
	if err := s.revokeTokens(ctx, userID); err != nil {
		return "", err
	}

	token, err := utils.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	record := &models.AuthToken{
		Digest:    utils.TokenDigest(token),
		UserID:    userID,
		ExpiresAt: time.Now().Add(constants.TokenTTL),
	}

	if err := s.tokenRepo.Create(record); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return token, nil
}

// revokeTokens deletes the user's tokens and evicts their cache entries.
func (s *AuthService) revokeTokens(ctx context.Context, userID uint64) error {
	if s.tokenCache != nil {
		tokens, err := s.tokenRepo.ListByUser(userID)
		if err != nil {
			return fmt.Errorf("failed to list tokens: %w", err)
		}
		digests := make([]string, len(tokens))
		for i, t := range tokens {
			digests[i] = t.Digest
		}
		if err := s.tokenCache.Delete(ctx, digests...); err != nil {
			s.logger.Warn("token cache eviction failed", zap.Error(err))
		}
	}

	if err := s.tokenRepo.DeleteByUser(userID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	return nil
}
