package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://id.example.com"
	testAudience = "sona-store"
	testKid      = "test-key-1"
)

func newTestVerifier(t *testing.T, pub *rsa.PublicKey) *Verifier {
	t.Helper()
	v := NewVerifier(testIssuer, "https://id.example.com/jwks", testAudience)
	// Pre-populate the key cache so no network fetch happens.
	v.keys[testKid] = pub
	v.expiresAt = time.Now().Add(time.Hour)
	return v
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":   testIssuer,
		"aud":   testAudience,
		"sub":   "subject-123",
		"email": "dev@example.com",
		"name":  "Dev",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerify_ValidToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := newTestVerifier(t, &key.PublicKey)

	id, err := v.Verify(signToken(t, key, testKid, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "subject-123", id.Subject)
	assert.Equal(t, "dev@example.com", id.Email)
	assert.Equal(t, "Dev", id.Name)
}

func TestVerify_WrongAudience(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := newTestVerifier(t, &key.PublicKey)

	claims := validClaims()
	claims["aud"] = "someone-else"
	_, err = v.Verify(signToken(t, key, testKid, claims))
	assert.Error(t, err)
}

func TestVerify_WrongIssuer(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := newTestVerifier(t, &key.PublicKey)

	claims := validClaims()
	claims["iss"] = "https://evil.example.com"
	_, err = v.Verify(signToken(t, key, testKid, claims))
	assert.Error(t, err)
}

func TestVerify_ExpiredToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := newTestVerifier(t, &key.PublicKey)

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	_, err = v.Verify(signToken(t, key, testKid, claims))
	assert.Error(t, err)
}

func TestVerify_WrongKey(t *testing.T) {
	trusted, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	attacker, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := newTestVerifier(t, &trusted.PublicKey)

	_, err = v.Verify(signToken(t, attacker, testKid, validClaims()))
	assert.Error(t, err, "token signed by an untrusted key must be rejected")
}

func TestVerify_MissingSubject(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := newTestVerifier(t, &key.PublicKey)

	claims := validClaims()
	delete(claims, "sub")
	_, err = v.Verify(signToken(t, key, testKid, claims))
	assert.Error(t, err)
}

func TestVerify_NotConfigured(t *testing.T) {
	v := NewVerifier("", "", "")
	assert.False(t, v.Configured())
	_, err := v.Verify("whatever")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
