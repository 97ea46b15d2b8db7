// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/fleetrelay/internal/auth"
	"github.com/tomtom215/fleetrelay/internal/directory"
	"github.com/tomtom215/fleetrelay/internal/logging"
	"github.com/tomtom215/fleetrelay/internal/models"
)

// checkUnknownUserPassword is replaced in tests.
var checkUnknownUserPassword = auth.CheckPasswordUnknownUser

// RegisterDriver handles POST /api/v1/drivers.
func (h *Handler) RegisterDriver(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterDriverRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to hash password", nil)
		return
	}

	driver := &models.Driver{
		FirstName:                 req.FirstName,
		MiddleInitial:             req.MiddleInitial,
		LastName:                  req.LastName,
		MdtUsername:               req.MdtUsername,
		DriverLicenseNumber:       req.DriverLicenseNumber,
		DriverLicenseIssuingState: req.DriverLicenseIssuingState,
		Provider:                  req.Provider,
		Skill:                     req.Skill,
		Note:                      req.Note,
		HireDate:                  req.HireDate,
		PasswordHash:              hash,
	}

	if err := h.store.Create(r.Context(), driver); err != nil {
		if errors.Is(err, directory.ErrConflict) {
			respondError(w, r, http.StatusConflict, "CONFLICT", "Username already registered", map[string]interface{}{
				"mdtUsername": req.MdtUsername,
			})
			return
		}
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create driver", nil)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("driver_id", driver.ID).
		Str("username", sanitizeLogValue(driver.MdtUsername)).
		Msg("Driver registered")

	respondJSON(w, r, http.StatusCreated, driver)
}

// Login handles POST /api/v1/drivers/login. Unknown username and wrong
// password produce the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	driver, err := h.store.FindByUsername(r.Context(), req.MdtUsername)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			_ = checkUnknownUserPassword(req.Password)
			respondError(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid username or password", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to look up driver", nil)
		return
	}

	if err := auth.CheckPassword(driver.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, auth.ErrInvalidPassword) {
			logging.Ctx(r.Context()).Error().Err(err).Int64("driver_id", driver.ID).Msg("Stored password hash is unusable")
		}
		respondError(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid username or password", nil)
		return
	}

	token, expires, err := h.jwtManager.GenerateToken(driver.ID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", nil)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("driver_id", driver.ID).Msg("Driver logged in")

	respondJSON(w, r, http.StatusOK, &models.LoginResponse{
		Token:     token,
		DriverID:  driver.ID,
		Name:      driver.DisplayName(),
		ExpiresAt: expires,
	})
}

// ListDrivers handles GET /api/v1/drivers.
func (h *Handler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.store.List(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list drivers", nil)
		return
	}
	respondJSON(w, r, http.StatusOK, drivers)
}
