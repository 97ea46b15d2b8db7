// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

// Package auth implements the Identity Verifier and driver password handling.
//
// Drivers log in with their MDT username and password and receive an HS256
// JWT carrying a driverId claim. Devices attach that token as the credential
// of every position report; the relay calls JWTManager.Verify on each report
// and never caches a verification result per connection.
//
// Passwords are stored as bcrypt hashes (see HashPassword and CheckPassword).
package auth
