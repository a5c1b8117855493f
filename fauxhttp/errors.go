package fauxhttp

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNoService          = errors.New("no service name")
	ErrUnboundPlaceholder = errors.New("unbound path placeholder")
	ErrUnsupportedValue   = errors.New("unsupported value type")
)

const maxErrorBody = 4 << 10

// StatusError is returned by Invoke for a non-2xx response
type StatusError struct {
	StatusCode int
	Status     string
	Method     string
	URL        string
	Header     http.Header
	Body       []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.URL, e.Status, e.Body)
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
