// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used for driver passwords.
const PasswordCost = 10

// ErrInvalidPassword is returned by CheckPassword on a mismatch.
var ErrInvalidPassword = errors.New("invalid password")

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	return hashPasswordWithCost(password, PasswordCost)
}

func hashPasswordWithCost(password string, cost int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password against a stored bcrypt hash.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidPassword
	}
	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// CheckPasswordUnknownUser spends the same bcrypt work as CheckPassword for
// a username that does not exist, so response time does not reveal which
// usernames are registered. It always returns ErrInvalidPassword.
func CheckPasswordUnknownUser(password string) error {
	dummyHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("fleetrelay-unknown-user"), PasswordCost)
		if err == nil {
			dummyHash = string(hash)
		}
	})
	if dummyHash != "" {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
	}
	return ErrInvalidPassword
}
