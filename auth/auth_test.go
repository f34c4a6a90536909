// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateRoomCode(t *testing.T) {
	code, err := GenerateRoomCode()
	if err != nil {
		t.Fatalf("GenerateRoomCode() error = %v", err)
	}
	if len(code) != 5 {
		t.Errorf("GenerateRoomCode() length = %d, want 5", len(code))
	}
	for _, c := range code {
		if !strings.ContainsRune(roomCodeAlphabet, c) {
			t.Errorf("GenerateRoomCode() contains char outside alphabet: %c", c)
		}
	}
	for _, banned := range "ILO01" {
		if strings.ContainsRune(code, banned) {
			t.Errorf("GenerateRoomCode() contains ambiguous char: %c", banned)
		}
	}

	// Two codes should differ (collisions happen, but not reliably)
	other, _ := GenerateRoomCode()
	third, _ := GenerateRoomCode()
	if code == other && other == third {
		t.Error("GenerateRoomCode() produced three identical codes")
	}
}

func TestGeneratePlayerID(t *testing.T) {
	id := GeneratePlayerID("host")
	if !strings.HasPrefix(id, "host-") {
		t.Errorf("GeneratePlayerID() = %q, want host- prefix", id)
	}
	if id == GeneratePlayerID("host") {
		t.Error("GeneratePlayerID() produced duplicate IDs")
	}
}

func TestHostKey(t *testing.T) {
	tests := []struct {
		name string
		code string
		salt string
	}{
		{"standard", "ABCDE", "secret-salt"},
		{"empty salt", "ABCDE", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateHostKey(tt.code, tt.salt)
			if key == "" {
				t.Fatal("GenerateHostKey() returned empty string")
			}
			if key != GenerateHostKey(tt.code, tt.salt) {
				t.Error("GenerateHostKey() is not deterministic")
			}
			if err := ValidateHostKey(tt.code, key, tt.salt); err != nil {
				t.Errorf("ValidateHostKey() error = %v", err)
			}
		})
	}

	t.Run("case insensitive code", func(t *testing.T) {
		key := GenerateHostKey("abcde", "salt")
		if err := ValidateHostKey("ABCDE", key, "salt"); err != nil {
			t.Errorf("ValidateHostKey() error = %v, want key to survive code casing", err)
		}
	})

	t.Run("rejects wrong key", func(t *testing.T) {
		key := GenerateHostKey("ABCDE", "salt")
		if err := ValidateHostKey("FGHJK", key, "salt"); !errors.Is(err, ErrInvalidHostKey) {
			t.Errorf("ValidateHostKey() error = %v, want ErrInvalidHostKey", err)
		}
		if err := ValidateHostKey("ABCDE", key, "other-salt"); !errors.Is(err, ErrInvalidHostKey) {
			t.Errorf("ValidateHostKey() with wrong salt error = %v, want ErrInvalidHostKey", err)
		}
		if err := ValidateHostKey("ABCDE", "", "salt"); !errors.Is(err, ErrInvalidHostKey) {
			t.Errorf("ValidateHostKey() with empty key error = %v, want ErrInvalidHostKey", err)
		}
	})
}

func TestAdminKey(t *testing.T) {
	key := GenerateAdminKey("salt")
	if err := ValidateAdminKey(key, "salt"); err != nil {
		t.Errorf("ValidateAdminKey() error = %v", err)
	}
	if err := ValidateAdminKey(key, "other"); !errors.Is(err, ErrInvalidAdminKey) {
		t.Errorf("ValidateAdminKey() with wrong salt error = %v, want ErrInvalidAdminKey", err)
	}
	if err := ValidateAdminKey("nope", "salt"); !errors.Is(err, ErrInvalidAdminKey) {
		t.Errorf("ValidateAdminKey() with bogus key error = %v, want ErrInvalidAdminKey", err)
	}
}
