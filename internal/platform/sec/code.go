// Copyright (c) 2026 Revora. All rights reserved.

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// # Confirmation Codes

// CodeMaker issues and verifies the short-lived confirmation codes used by
// the signup flow.
//
// Codes are stateless: nothing is persisted. A code is an HMAC-SHA256 over
// (user id, state fingerprint, expiry timestamp) keyed with a shared
// secret, so verification is a pure recomputation. Because the fingerprint
// covers the account's mutable fields, any change to the record silently
// invalidates every outstanding code for it.
type CodeMaker struct {
	secret []byte
	ttl    time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewCodeMaker constructs a CodeMaker with the given shared secret and code
// lifetime.
func NewCodeMaker(secret string, ttl time.Duration) *CodeMaker {
	return &CodeMaker{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Make generates a confirmation code bound to the user's identity and
// current state.
//
// # Format
//
// "<expiry-unix>-<hex signature>". The expiry travels in the clear; the
// signature covers it, so tampering with either part fails verification.
func (maker *CodeMaker) Make(userID, stateFingerprint string) string {
	expiry := maker.now().Add(maker.ttl).Unix()
	return fmt.Sprintf("%d-%s", expiry, maker.sign(userID, stateFingerprint, expiry))
}

// Check reports whether the code is authentic, unexpired, and bound to the
// given user state.
func (maker *CodeMaker) Check(userID, stateFingerprint, code string) bool {
	expiryPart, signature, found := strings.Cut(code, "-")
	if !found {
		return false
	}

	expiry, err := strconv.ParseInt(expiryPart, 10, 64)
	if err != nil {
		return false
	}

	if maker.now().Unix() > expiry {
		return false
	}

	expected := maker.sign(userID, stateFingerprint, expiry)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// sign computes the hex HMAC-SHA256 signature for the code payload.
func (maker *CodeMaker) sign(userID, stateFingerprint string, expiry int64) string {
	mac := hmac.New(sha256.New, maker.secret)
	fmt.Fprintf(mac, "%s\x00%s\x00%d", userID, stateFingerprint, expiry)
	return hex.EncodeToString(mac.Sum(nil))
}

// StateFingerprint condenses the mutable fields of a record into a stable
// digest suitable for binding codes to account state.
func StateFingerprint(parts ...string) string {
	digest := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(digest[:])
}
