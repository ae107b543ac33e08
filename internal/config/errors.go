package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors returned by Load and Validate. ErrConfigFile and ErrEnvLayer both
// match ErrLoadConfig, so callers that only care whether loading failed can
// test for that alone.
var (
	ErrLoadConfig    = errors.New("byline config: load failed")
	ErrInvalidConfig = errors.New("byline config: invalid")

	ErrConfigFile = fmt.Errorf("%w: %s file", ErrLoadConfig, EnvConfigFile)
	ErrEnvLayer   = fmt.Errorf("%w: %s environment", ErrLoadConfig, EnvPrefix)
)

// invalidConfig names every field that failed validation, e.g.
// "byline config: invalid: Addr (required), FuzzyThreshold (lte)".
func invalidConfig(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Field(), f.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(parts, ", "))
}
