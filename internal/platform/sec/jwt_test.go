// Copyright (c) 2026 Revora. All rights reserved.

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revora-app/revora/internal/platform/sec"
)

// newTestTokenService generates a throwaway RSA key pair, writes it to
// temp PEM files, and constructs a TokenService from them.
func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "jwt.pem")
	publicPath := filepath.Join(dir, "jwt.pub.pem")

	privateBlock := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}
	require.NoError(t, os.WriteFile(privatePath, pem.EncodeToMemory(privateBlock), 0o600))

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicBlock := &pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	}
	require.NoError(t, os.WriteFile(publicPath, pem.EncodeToMemory(publicBlock), 0o600))

	service, err := sec.NewTokenService(privatePath, publicPath, "revora.app")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip generates a token and verifies the embedded
claims survive the trip.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", "moderator", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "moderator", claims.Role)
	assert.Equal(t, "revora.app", claims.Issuer)
	assert.Equal(t, "user-1", claims.Subject)
}

/*
TestTokenService_Expired confirms an expired token fails verification.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", "user", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_Tampered confirms a modified token fails signature checks.
*/
func TestTokenService_Tampered(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", "user", time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyToken(token + "x")
	assert.Error(t, err)
}

/*
TestTokenService_ForeignKey confirms a token signed by a different key pair
is rejected.
*/
func TestTokenService_ForeignKey(t *testing.T) {
	issuerService := newTestTokenService(t)
	verifierService := newTestTokenService(t)

	token, err := issuerService.GenerateAccessToken("user-1", "alice", "user", time.Hour)
	require.NoError(t, err)

	_, err = verifierService.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestNewTokenService_MissingKeys covers constructor failures on unreadable
key material.
*/
func TestNewTokenService_MissingKeys(t *testing.T) {
	_, err := sec.NewTokenService("/nonexistent/jwt.pem", "/nonexistent/jwt.pub.pem", "revora.app")
	assert.Error(t, err)
}
