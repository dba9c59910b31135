package satellite

import (
	"regexp"
	"strings"
)

// Validation error codes
const (
	ErrCodeTitleRequired   = "TITLE_REQUIRED"
	ErrCodeNoradRequired   = "NORAD_ID_REQUIRED"
	ErrCodeStatusRequired  = "STATUS_REQUIRED"
	ErrCodeNoradNotNumeric = "NORAD_ID_NOT_NUMERIC"
)

// noradPattern matches a pure digit string.
var noradPattern = regexp.MustCompile(`^\d+$`)

// FieldError describes a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of validating a draft. When Valid is
// true, Record holds the normalized record (identifier unset); otherwise
// Errors holds one entry per failed rule, in rule order.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
	Record Record
}

// Validate checks a draft against the record rules, accumulating all
// failures rather than stopping at the first. It has no side effects and
// is deterministic: the same draft always yields the same result.
//
// Rules, in order:
//  1. title must be non-blank after trimming
//  2. NORAD catalog number must be non-blank after trimming
//  3. operational status must be non-blank after trimming
//  4. a present catalog number must be a pure digit string
func Validate(d Draft) ValidationResult {
	title := strings.TrimSpace(d.Title)
	norad := strings.TrimSpace(d.NoradID)
	status := strings.TrimSpace(d.Status)

	var errs []FieldError
	if title == "" {
		errs = append(errs, FieldError{Field: "title", Code: ErrCodeTitleRequired, Message: "Satellite name is required"})
	}
	if norad == "" {
		errs = append(errs, FieldError{Field: "norad_id", Code: ErrCodeNoradRequired, Message: "NORAD catalog number is required"})
	}
	if status == "" {
		errs = append(errs, FieldError{Field: "status", Code: ErrCodeStatusRequired, Message: "Operational status is required"})
	}
	if norad != "" && !noradPattern.MatchString(norad) {
		errs = append(errs, FieldError{Field: "norad_id", Code: ErrCodeNoradNotNumeric, Message: "NORAD catalog number must contain only digits"})
	}

	if len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs}
	}

	return ValidationResult{
		Valid: true,
		Record: Record{
			Title:           title,
			NoradID:         norad,
			IntlCode:        strings.TrimSpace(d.IntlCode),
			MissionType:     strings.TrimSpace(d.MissionType),
			Status:          status,
			OrbitType:       strings.TrimSpace(d.OrbitType),
			LaunchDate:      NormalizeDate(d.LaunchDate),
			Lifetime:        strings.TrimSpace(d.Lifetime),
			ConstellationID: ParseConstellationID(d.ConstellationID),
			SensorNames:     strings.TrimSpace(d.SensorNames),
			PrimarySensor:   strings.TrimSpace(d.PrimarySensor),
		},
	}
}
