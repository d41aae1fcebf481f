package api

import (
	"encoding/json"
	"net/http"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/districtproof/districtnode/districtnode/pip"
	"github.com/districtproof/districtnode/districtnode/snapshot"
	"github.com/pkg/errors"
)

// ErrorCode enumerates the semantic error kinds §7 of the service
// contract names. These are caller-facing: they appear on the wire
// exactly as spelled here.
type ErrorCode string

const (
	ErrInvalidCoordinates  ErrorCode = "InvalidCoordinates"
	ErrDistrictNotFound    ErrorCode = "DistrictNotFound"
	ErrSnapshotUnavailable ErrorCode = "SnapshotUnavailable"
	ErrServiceBusy         ErrorCode = "ServiceBusy"
)

var httpStatusFor = map[ErrorCode]int{
	ErrInvalidCoordinates:  http.StatusBadRequest,
	ErrDistrictNotFound:    http.StatusNotFound,
	ErrSnapshotUnavailable: http.StatusServiceUnavailable,
	ErrServiceBusy:         http.StatusTooManyRequests,
}

// apiError pairs a caller-facing code with a request id for
// correlation against server-side logs, matching the propagation rule
// that caller-facing errors preserve a request id rather than leaking
// internal detail.
type apiError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"requestId"`
}

func writeError(w http.ResponseWriter, requestID string, code ErrorCode, cause error) {
	status, ok := httpStatusFor[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	msg := string(code)
	if cause != nil {
		msg = cause.Error()
	}
	_ = json.NewEncoder(w).Encode(apiError{Code: code, Message: msg, RequestID: requestID})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response body")
	}
}

// classify maps a lower-layer error into the caller-facing code the
// HTTP boundary should respond with, defaulting to a 500 when the
// cause is not one of the sentinel errors the serving core defines.
func classify(err error) ErrorCode {
	switch {
	case errors.Is(err, pip.ErrNotFound), errors.Is(err, boundary.ErrDistrictNotFound):
		return ErrDistrictNotFound
	case errors.Is(err, snapshot.ErrNoActiveSnapshot):
		return ErrSnapshotUnavailable
	default:
		return ""
	}
}
