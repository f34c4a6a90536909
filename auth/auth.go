// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidHostKey  = errors.New("invalid host key")
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

// Room codes are short enough to read out loud and typed on a phone.
// The alphabet drops glyphs that are easy to misread (I, L, O, 0, 1).
const (
	roomCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 5
)

// GenerateRoomCode creates a short, human-typeable, upper-case room
// code.
func GenerateRoomCode() (string, error) {
	b := make([]byte, roomCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate room code: %w", err)
	}
	for i := range b {
		b[i] = roomCodeAlphabet[int(b[i])%len(roomCodeAlphabet)]
	}
	return string(b), nil
}

// GeneratePlayerID creates a unique player ID with the given role
// prefix ("host" or "player"). The ID is stable for the session.
func GeneratePlayerID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// GenerateHostKey creates an HMAC-based capability key for the host of
// a room. This is deterministic and verifiable, so the server never
// needs to store it.
func GenerateHostKey(code, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("host:" + strings.ToUpper(code)))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateHostKey checks whether the presented key is the host
// capability for the room.
func ValidateHostKey(code, key, salt string) error {
	expected := GenerateHostKey(code, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidHostKey
	}
	return nil
}

// GenerateAdminKey creates the key for the operator room listing.
func GenerateAdminKey(salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("rooms-admin"))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks the operator key.
func ValidateAdminKey(key, salt string) error {
	if !hmac.Equal([]byte(key), []byte(GenerateAdminKey(salt))) {
		return ErrInvalidAdminKey
	}
	return nil
}
