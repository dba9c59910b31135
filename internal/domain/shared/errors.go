package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Record not found")
	ErrValidationFailed     = NewDomainError("VALIDATION_FAILED", "One or more fields failed validation")
	ErrBackendUnavailable   = NewDomainError("BACKEND_UNAVAILABLE", "The persistence backend is unavailable")
	ErrStorageQuota         = NewDomainError("STORAGE_QUOTA_EXCEEDED", "Local storage quota exceeded")
	ErrStorageSerialization = NewDomainError("STORAGE_SERIALIZATION", "Failed to serialize records for storage")
	ErrSaveInFlight         = NewDomainError("SAVE_IN_FLIGHT", "Another save operation is already in progress")
	ErrImportInFlight       = NewDomainError("IMPORT_IN_FLIGHT", "Another import operation is already in progress")
	ErrDeleteNotConfirmed   = NewDomainError("DELETE_NOT_CONFIRMED", "Delete was not confirmed")
)
