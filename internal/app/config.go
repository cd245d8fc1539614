package app

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
// Zero values defer to the loaded plan, then to built-in defaults.
type Config struct {
	LogFormat string `validate:"omitempty,oneof=text json"`
	LogLevel  string `validate:"omitempty,oneof=debug info warn error"`

	// Solver endpoint overrides.
	Transport          string
	SolverURL          string
	Namespace          string
	InsecureSkipVerify bool
	Timeout            time.Duration `validate:"gte=0s"`

	Format    string
	UploadURL string `validate:"omitempty,url"`
	Port      int    `validate:"gte=0,lte=65535"`
}

var (
	configValidatorOnce sync.Once
	configValidator     *validator.Validate
)

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	configValidatorOnce.Do(func() {
		configValidator = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := configValidator.Struct(cfg); err != nil {
		var msgs []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: invalid value %v (%s)", fe.Field(), fe.Value(), fe.Tag()))
			}
		} else {
			msgs = append(msgs, err.Error())
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}

	return &cfg, nil
}
