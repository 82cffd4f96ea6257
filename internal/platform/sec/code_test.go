// Copyright (c) 2026 Revora. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revora-app/revora/internal/platform/sec"
)

/*
TestCodeMaker_RoundTrip verifies that a freshly issued code validates for
the same user and state.
*/
func TestCodeMaker_RoundTrip(t *testing.T) {
	maker := sec.NewCodeMaker("test-secret", time.Hour)
	fingerprint := sec.StateFingerprint("alice", "alice@example.com", "user", "false")

	code := maker.Make("user-1", fingerprint)
	require.NotEmpty(t, code)

	assert.True(t, maker.Check("user-1", fingerprint, code))
}

/*
TestCodeMaker_Check_Rejections covers the ways a code can fail verification.
*/
func TestCodeMaker_Check_Rejections(t *testing.T) {
	maker := sec.NewCodeMaker("test-secret", time.Hour)
	fingerprint := sec.StateFingerprint("alice", "alice@example.com", "user", "false")
	code := maker.Make("user-1", fingerprint)

	tests := []struct {
		name        string
		userID      string
		fingerprint string
		code        string
	}{
		{"wrong_user", "user-2", fingerprint, code},
		{"wrong_state", "user-1", sec.StateFingerprint("other"), code},
		{"malformed", "user-1", fingerprint, "not-a-real-code"},
		{"empty", "user-1", fingerprint, ""},
		{"tampered_signature", "user-1", fingerprint, code + "ff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, maker.Check(tt.userID, tt.fingerprint, tt.code))
		})
	}
}

/*
TestCodeMaker_Expiry confirms an expired code is rejected even when the
signature is authentic.
*/
func TestCodeMaker_Expiry(t *testing.T) {
	// A negative TTL produces a code whose expiry is already in the past.
	maker := sec.NewCodeMaker("test-secret", -time.Minute)
	fingerprint := sec.StateFingerprint("alice")

	code := maker.Make("user-1", fingerprint)
	assert.False(t, maker.Check("user-1", fingerprint, code))
}

/*
TestCodeMaker_SecretIsolation ensures codes from one deployment secret do
not validate under another.
*/
func TestCodeMaker_SecretIsolation(t *testing.T) {
	fingerprint := sec.StateFingerprint("alice")

	first := sec.NewCodeMaker("secret-a", time.Hour)
	second := sec.NewCodeMaker("secret-b", time.Hour)

	code := first.Make("user-1", fingerprint)
	assert.False(t, second.Check("user-1", fingerprint, code))
}

/*
TestStateFingerprint verifies determinism and sensitivity to field order.
*/
func TestStateFingerprint(t *testing.T) {
	a := sec.StateFingerprint("alice", "alice@example.com")
	b := sec.StateFingerprint("alice", "alice@example.com")
	c := sec.StateFingerprint("alice@example.com", "alice")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
