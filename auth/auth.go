// Package auth validates and stores Anthropic credentials. Both setup tokens
// (from `claude setup-token`) and regular API keys are accepted; the stored
// credential lives in a local JSON file so the server can restart without
// re-prompting.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Accepted token prefixes, setup tokens first.
var tokenPrefixes = []string{"sk-ant-oat01-", "sk-ant-api03-", "sk-ant-"}

const tokenMinLength = 40

var (
	// ErrEmptyToken is returned when the token is blank.
	ErrEmptyToken = errors.New("token is required")

	// ErrBadPrefix is returned when the token has no recognized prefix.
	ErrBadPrefix = errors.New("unrecognized token prefix")

	// ErrTokenTooShort is returned when the token is implausibly short.
	ErrTokenTooShort = errors.New("token looks too short")

	// ErrNotAuthenticated is returned when no credential is stored.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// ValidateToken checks that raw looks like an Anthropic token.
func ValidateToken(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ErrEmptyToken
	}

	valid := false
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: expected one of %s", ErrBadPrefix, strings.Join(tokenPrefixes, ", "))
	}

	if len(trimmed) < tokenMinLength {
		return ErrTokenTooShort
	}
	return nil
}

// Preview returns a masked form of the token safe to display.
func Preview(token string) string {
	if len(token) < 20 {
		return "***"
	}
	return token[:15] + "..." + token[len(token)-4:]
}

// Credential is the stored token record.
type Credential struct {
	Type        string `json:"type"`
	Provider    string `json:"provider"`
	Token       string `json:"token"`
	ProfileName string `json:"profile_name"`
}

// Store persists one credential in a JSON file.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save validates the token and writes it to the store, replacing any
// existing credential.
func (s *Store) Save(token, profileName string) error {
	token = strings.TrimSpace(token)
	if err := ValidateToken(token); err != nil {
		return err
	}
	if profileName == "" {
		profileName = "default"
	}

	data, err := json.Marshal(Credential{
		Type:        "token",
		Provider:    "anthropic",
		Token:       token,
		ProfileName: profileName,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Load returns the stored credential, or ErrNotAuthenticated when none
// exists or the file is unreadable.
func (s *Store) Load() (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("load credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, ErrNotAuthenticated
	}
	if cred.Token == "" {
		return nil, ErrNotAuthenticated
	}
	return &cred, nil
}

// Token returns the stored token string, or ErrNotAuthenticated.
func (s *Store) Token() (string, error) {
	cred, err := s.Load()
	if err != nil {
		return "", err
	}
	return cred.Token, nil
}

// Delete removes the stored credential. It reports whether a credential
// existed.
func (s *Store) Delete() (bool, error) {
	err := os.Remove(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete credential: %w", err)
	}
	return true, nil
}

// IsAuthenticated reports whether a valid token is stored.
func (s *Store) IsAuthenticated() bool {
	token, err := s.Token()
	if err != nil {
		return false
	}
	return ValidateToken(token) == nil
}
