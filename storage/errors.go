package storage

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidLocation    = errors.New("invalid location")
	ErrNotSupported       = errors.New("not supported")
	ErrMissingCredentials = errors.New("missing credentials")
)

// FetchError is returned when a location could not be read. Err is the
// transport or I/O failure, unchanged.
type FetchError struct {
	Location string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Location, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
