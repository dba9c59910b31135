package liststore

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults for the list-service protocol.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 5000
)

// Config holds list-service connection settings.
type Config struct {
	// BaseURL is the service API root, e.g. https://host/sites/ops/_api
	BaseURL string `validate:"required,url"`

	// SatelliteList and SensorList are the list titles on the service.
	SatelliteList string `validate:"required"`
	SensorList    string `validate:"required"`

	// Timeout bounds every call; an expired call is a hard failure and
	// is never retried automatically.
	Timeout time.Duration

	// PageSize caps how many items one list read fetches.
	PageSize int
}

var validate = validator.New()

// Validate checks the configuration and applies defaults for unset
// optional fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("liststore: invalid config: %w", err)
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PageSize <= 0 || c.PageSize > DefaultPageSize {
		c.PageSize = DefaultPageSize
	}
	return nil
}
