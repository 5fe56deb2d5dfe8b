package fixedfloat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOrderIncomplete is returned by order-scoped operations invoked on a
// handle whose id and token are not yet known.
var ErrOrderIncomplete = errors.New("fixedfloat: order id/token not set")

// ConfigError reports invalid client construction input.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "fixedfloat: " + e.Reason
}

// ValidationError reports request parameters rejected before any network
// call. Missing lists the exact parameter names that were absent.
type ValidationError struct {
	Op      string
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("fixedfloat: %s: missing required parameters: %s",
			e.Op, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("fixedfloat: %s: %s", e.Op, e.Reason)
}

// APIError is a non-zero response code from the exchange. Message carries
// the server-supplied text.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fixedfloat: api error %d: %s", e.Code, e.Message)
}
