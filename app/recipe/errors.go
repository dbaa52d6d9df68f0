package recipe

import "fmt"

type ErrorKind string

const (
	ErrMalformedURL     ErrorKind = "malformed_url"
	ErrInvalidThreshold ErrorKind = "invalid_threshold"
	ErrMissingField     ErrorKind = "missing_field"
	ErrInvalidLanguage  ErrorKind = "invalid_language"
	ErrInvalidVersion   ErrorKind = "invalid_version"
)

// ConfigError reports a recipe validation failure. Kind identifies the
// class of failure so callers can distinguish a malformed feed URL from
// a bad threshold without string matching.
type ConfigError struct {
	Kind   ErrorKind
	Field  string
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func newConfigError(kind ErrorKind, field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{
		Kind:   kind,
		Field:  field,
		Detail: fmt.Sprintf(format, args...),
	}
}
