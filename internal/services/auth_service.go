package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sonastore/backend/internal/config"
	"github.com/sonastore/backend/internal/dto"
	"github.com/sonastore/backend/internal/identity"
	"github.com/sonastore/backend/internal/models"
	"github.com/sonastore/backend/internal/session"
	"golang.org/x/crypto/scrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
)

type AuthService struct {
	db          *gorm.DB
	sessions    session.Store
	verifier    *identity.Verifier
	sessionTTL  time.Duration
	adminEmails []string
}

func NewAuthService(db *gorm.DB, sessions session.Store, verifier *identity.Verifier, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		sessions:    sessions,
		verifier:    verifier,
		sessionTTL:  cfg.SessionExpiry,
		adminEmails: parseCSV(cfg.AdminEmails),
	}
}

// Register creates an account and establishes a session. Emails on the admin
// bootstrap list get the admin role; everyone else starts as a plain user.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Email == "" || req.Name == "" {
		return nil, errors.New("email and name are required")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleUser
	if contains(s.adminEmails, req.Email) {
		role = models.RoleAdmin
	}

	user := models.User{
		ID:       uuid.New(),
		Email:    req.Email,
		Name:     req.Name,
		Password: hash,
		Role:     role,
		Provider: "email",
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.establishSession(ctx, &user)
}

// Login verifies credentials and establishes a session.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if !verifyPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.establishSession(ctx, &user)
}

// ProviderSignIn verifies an external identity token and finds or creates the
// matching account.
func (s *AuthService) ProviderSignIn(ctx context.Context, req *dto.ProviderSignInRequest) (*dto.AuthResponse, error) {
	if req.IdentityToken == "" {
		return nil, errors.New("identity token is required")
	}

	id, err := s.verifier.Verify(req.IdentityToken)
	if err != nil {
		return nil, err
	}

	email := id.Email
	if email == "" {
		return nil, errors.New("identity token missing email")
	}

	var user models.User
	err = s.db.Where("provider_subject = ? OR email = ?", id.Subject, email).First(&user).Error
	if err != nil {
		name := id.Name
		if name == "" {
			name = req.Name
		}
		if name == "" {
			name = strings.Split(email, "@")[0]
		}

		// Random unusable credential: it never parses as salt:hash, so
		// password login stays closed for provider accounts.
		raw := make([]byte, 32)
		rand.Read(raw)

		user = models.User{
			ID:              uuid.New(),
			Email:           email,
			Name:            name,
			Password:        hex.EncodeToString(raw),
			Role:            models.RoleUser,
			Provider:        "oidc",
			ProviderSubject: &id.Subject,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create provider user: %w", err)
		}
	} else if user.ProviderSubject == nil {
		s.db.Model(&user).Updates(map[string]interface{}{
			"provider_subject": id.Subject,
			"provider":         "oidc",
		})
		user.ProviderSubject = &id.Subject
		user.Provider = "oidc"
	}

	return s.establishSession(ctx, &user)
}

// Logout invalidates the session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, session.Key(token))
}

// UserFromToken resolves a session token to its user.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.sessions.Get(ctx, session.Key(token))
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *AuthService) establishSession(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	token, err := session.NewToken()
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, session.Key(token), user.ID, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

// hashPassword derives an scrypt hash keyed by a fresh random salt and
// encodes the credential as "salt:hash" (both hex).
func hashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	saltHex := hex.EncodeToString(salt)

	key, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}
	return saltHex + ":" + hex.EncodeToString(key), nil
}

// verifyPassword recomputes the hash with the stored salt and compares in
// constant time. A length mismatch short-circuits to failure.
func verifyPassword(stored, password string) bool {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return false
	}

	storedKey, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}

	derived, err := scrypt.Key([]byte(password), []byte(parts[0]), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}

	if len(storedKey) != len(derived) {
		return false
	}
	return subtle.ConstantTimeCompare(storedKey, derived) == 1
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
