package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall through to 500.
var ErrorCodeHTTPStatus = map[string]int{
	"VALIDATION_FAILED":      http.StatusBadRequest,
	"DELETE_NOT_CONFIRMED":   http.StatusBadRequest,
	"NOT_FOUND":              http.StatusNotFound,
	"SAVE_IN_FLIGHT":         http.StatusConflict,
	"IMPORT_IN_FLIGHT":       http.StatusConflict,
	"BACKEND_UNAVAILABLE":    http.StatusBadGateway,
	"STORAGE_QUOTA_EXCEEDED": http.StatusInsufficientStorage,
	"STORAGE_SERIALIZATION":  http.StatusInternalServerError,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeInternal:          http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
