// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

/*
Package validation wraps go-playground/validator v10 behind a process-wide
singleton and converts its errors into messages fit for API clients.

Field names in messages and details are taken from the json tag, so a
failure on PositionReport.SubjectID is reported as "subjectId".

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}
*/
package validation
