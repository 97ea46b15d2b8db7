// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package models

import (
	"strings"
	"time"
)

// Driver is a directory entry. PasswordHash never leaves the process.
type Driver struct {
	ID                        int64      `json:"id"`
	FirstName                 string     `json:"firstName"`
	MiddleInitial             string     `json:"middleInitial,omitempty"`
	LastName                  string     `json:"lastName"`
	MdtUsername               string     `json:"mdtUsername"`
	DriverLicenseNumber       string     `json:"driverLicenseNumber,omitempty"`
	DriverLicenseIssuingState string     `json:"driverLicenseIssuingState,omitempty"`
	Provider                  string     `json:"provider,omitempty"`
	Skill                     string     `json:"skill,omitempty"`
	Note                      string     `json:"note,omitempty"`
	HireDate                  *time.Time `json:"hireDate,omitempty"`
	CreatedAt                 time.Time  `json:"createdAt"`
	PasswordHash              string     `json:"-"`
}

// DisplayName joins first and last name.
func (d Driver) DisplayName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// DisplayIdentity is what the relay attaches to a broadcast.
type DisplayIdentity struct {
	FirstName string
	LastName  string
}

// RegisterDriverRequest is the body of POST /api/v1/drivers.
type RegisterDriverRequest struct {
	FirstName                 string     `json:"firstName" validate:"required,max=100"`
	MiddleInitial             string     `json:"middleInitial" validate:"omitempty,max=1"`
	LastName                  string     `json:"lastName" validate:"required,max=100"`
	MdtUsername               string     `json:"mdtUsername" validate:"required,min=3,max=64"`
	Password                  string     `json:"password" validate:"required,min=8,max=72"`
	DriverLicenseNumber       string     `json:"driverLicenseNumber" validate:"omitempty,max=32"`
	DriverLicenseIssuingState string     `json:"driverLicenseIssuingState" validate:"omitempty,len=2,alpha"`
	Provider                  string     `json:"provider" validate:"omitempty,max=100"`
	Skill                     string     `json:"skill" validate:"omitempty,max=50"`
	Note                      string     `json:"note" validate:"omitempty,max=500"`
	HireDate                  *time.Time `json:"hireDate"`
}

// LoginRequest is the body of POST /api/v1/drivers/login.
type LoginRequest struct {
	MdtUsername string `json:"mdtUsername" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// LoginResponse carries the credential a driver device attaches to reports.
type LoginResponse struct {
	Token     string    `json:"token"`
	DriverID  int64     `json:"driverId"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}
