package recognizer

import (
	"fmt"
	"strings"
)

// ConfigError indicates a required connection parameter is missing at client
// construction. It is never retried.
type ConfigError struct {
	Missing string // human name of the missing parameter
	Env     string // environment variable that can supply it
}

func (e *ConfigError) Error() string {
	if e.Env != "" {
		return fmt.Sprintf("missing configuration: %s (set it explicitly or via %s)", e.Missing, e.Env)
	}
	return fmt.Sprintf("missing configuration: %s", e.Missing)
}

// APIError is a non-200 response or a transport failure from the remote
// recognition endpoint.
type APIError struct {
	Status  int // HTTP status, 0 for network-level failures
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ValidationError reports every base field missing or null in a recognition
// result, in BaseFields order.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// VersionMismatchError indicates the client and server major versions differ.
type VersionMismatchError struct {
	ClientVersion string
	ServerVersion string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("version mismatch: client %s is not compatible with server %s, please update the client",
		e.ClientVersion, e.ServerVersion)
}
