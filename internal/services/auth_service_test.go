package services

import (
	"context"
	"testing"
	"time"

	"github.com/sonastore/backend/internal/config"
	"github.com/sonastore/backend/internal/dto"
	"github.com/sonastore/backend/internal/models"
	"github.com/sonastore/backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB, cfg *config.Config) *AuthService {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{SessionExpiry: time.Hour}
	}
	store := session.NewMemoryStore()
	t.Cleanup(store.Stop)
	return NewAuthService(db, store, nil, cfg)
}

func TestRegister_CreatesUserAndSession(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "dev@example.com", Password: "password123", Name: "Dev",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleUser, resp.User.Role)

	user, err := svc.UserFromToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", user.Email)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)
	ctx := context.Background()

	req := &dto.RegisterRequest{Email: "dev@example.com", Password: "password123", Name: "Dev"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error)
	assert.Equal(t, int64(1), count, "exactly one user row for the email")
}

func TestRegister_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "", Password: "password123", Name: "X"})
	assert.Error(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "a@b.com", Password: "short", Name: "X"})
	assert.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count, "validation failures must not create rows")
}

func TestRegister_AdminBootstrapList(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, &config.Config{
		SessionExpiry: time.Hour,
		AdminEmails:   "root@sona.com, other@sona.com",
	})

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "root@sona.com", Password: "password123", Name: "Root",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
}

func TestLogin_CorrectAndWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "dev@example.com", Password: "password123", Name: "Dev",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "dev@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// One flipped byte
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "dev@example.com", Password: "passxord123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUserGetsSameError(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials,
		"unknown user and wrong password must be indistinguishable")
}

func TestLogout_InvalidatesSession(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "dev@example.com", Password: "password123", Name: "Dev",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.Token))
	_, err = svc.UserFromToken(ctx, resp.Token)
	assert.Error(t, err)
}

func TestSessionExpiry(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, &config.Config{SessionExpiry: time.Millisecond})
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "dev@example.com", Password: "password123", Name: "Dev",
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = svc.UserFromToken(ctx, resp.Token)
	assert.Error(t, err, "expired session must not authenticate")
}

func TestHashAndVerifyPassword(t *testing.T) {
	stored, err := hashPassword("correct horse battery")
	require.NoError(t, err)
	assert.Contains(t, stored, ":")

	assert.True(t, verifyPassword(stored, "correct horse battery"))
	assert.False(t, verifyPassword(stored, "correct horse batterz"), "flipped byte must fail")
	assert.False(t, verifyPassword(stored, ""))
}

func TestVerifyPassword_LengthMismatchShortCircuits(t *testing.T) {
	stored, err := hashPassword("password123")
	require.NoError(t, err)

	// Truncate the stored hash so the recomputed key has a different length.
	truncated := stored[:len(stored)-8]
	assert.NotPanics(t, func() {
		assert.False(t, verifyPassword(truncated, "password123"))
	})
}

func TestVerifyPassword_MalformedCredential(t *testing.T) {
	assert.False(t, verifyPassword("no-separator-here", "password123"))
	assert.False(t, verifyPassword("salt:not-hex!!", "password123"))
	assert.False(t, verifyPassword("", "password123"))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	a, err := hashPassword("same password")
	require.NoError(t, err)
	b, err := hashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "each credential must carry a fresh salt")
}
