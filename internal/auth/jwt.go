// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/fleetrelay/internal/config"
)

// ErrUnauthenticated is returned by Verify for any credential that does not
// prove a driver identity: bad signature, expired, malformed or missing claim.
var ErrUnauthenticated = errors.New("unauthenticated")

// Claims are the claims carried by a driver token.
type Claims struct {
	DriverID int64 `json:"driverId"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates driver tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a token manager from the security configuration.
//
//	jwtManager, err := auth.NewJWTManager(&cfg.Security)
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// GenerateToken signs an HS256 token for driverID and returns it with its
// expiry time.
func (m *JWTManager) GenerateToken(driverID int64) (string, time.Time, error) {
	issued := m.now()
	expires := issued.Add(m.ttl)

	claims := &Claims{
		DriverID: driverID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// ValidateToken parses tokenString and returns its claims.
// Tokens signed with anything other than HMAC are rejected.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.DriverID == 0 {
		return nil, fmt.Errorf("token has no driverId claim")
	}
	return claims, nil
}

// Verify resolves a credential to the driver id it proves. Every failure is
// reported as ErrUnauthenticated, wrapping the underlying cause.
// HMAC validation does no I/O, so ctx is unused.
func (m *JWTManager) Verify(_ context.Context, credential string) (int64, error) {
	claims, err := m.ValidateToken(credential)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return claims.DriverID, nil
}
