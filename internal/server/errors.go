//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package server

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError is the JSON body of a failed request.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"error_code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render sets the response status for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func badRequest(msg string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: "INVALID_REQUEST", Message: msg}
}

func internalError(msg string) *APIError {
	return &APIError{StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: msg}
}
