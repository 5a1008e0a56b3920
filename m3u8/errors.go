package m3u8

import (
	"errors"
	"fmt"
)

var (
	ErrNotMasterPlaylist      = errors.New("not a master playlist")
	ErrMalformedAttributeList = errors.New("malformed attribute list")
	ErrDanglingStreamTag      = errors.New("stream tag is missing its uri line")
	ErrSerialization          = errors.New("playlist cannot be serialized")
	ErrUnknownField           = errors.New("unknown sort field")
)

// ParseError reports the line a playlist failed to parse at.
// Line is 1-based and Text is the offending line, trimmed.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func errMalformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedAttributeList, fmt.Sprintf(format, args...))
}
