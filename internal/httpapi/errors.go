package httpapi

import (
	"encoding/json"
	"net/http"

	"mlxd/internal/engine"
	"mlxd/internal/registry"
	"mlxd/internal/session"
	"mlxd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// Stable machine-readable error kinds carried in JSON error payloads.
const (
	kindValidation    = "validation"
	kindUnsupported   = "unsupported"
	kindKindMismatch  = "kind_mismatch"
	kindLoadFailed    = "load_failed"
	kindCapacity      = "capacity"
	kindGeneration    = "generation"
	kindModelNotFound = "model_not_found"
	kindInternal      = "internal"
)

// errorStatus maps core errors to an HTTP status and a stable error kind.
func errorStatus(err error) (int, string) {
	switch {
	case session.IsValidation(err):
		return http.StatusBadRequest, kindValidation
	case session.IsUnsupported(err):
		return http.StatusBadRequest, kindUnsupported
	case registry.IsKindMismatch(err):
		return http.StatusConflict, kindKindMismatch
	case registry.IsCapacity(err):
		return http.StatusInsufficientStorage, kindCapacity
	case registry.IsLoadFailed(err):
		if engine.IsUnavailable(err) {
			return http.StatusServiceUnavailable, kindLoadFailed
		}
		return http.StatusInternalServerError, kindLoadFailed
	case session.IsGeneration(err):
		return http.StatusInternalServerError, kindGeneration
	default:
		if he, ok := err.(HTTPError); ok {
			return he.StatusCode(), kindInternal
		}
		return http.StatusInternalServerError, kindInternal
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Kind: kind, Code: status})
}

// writeCoreError maps err and writes it.
func writeCoreError(w http.ResponseWriter, err error) (status int) {
	status, kind := errorStatus(err)
	writeJSONError(w, status, kind, err.Error())
	return status
}
