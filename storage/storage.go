package storage

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/turtletowerz/hlssort/config"
	"github.com/turtletowerz/hlssort/logger"
)

const contentType = "application/vnd.apple.mpegurl"

// Opener reads and writes playlists by location
type Opener interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
	Store(ctx context.Context, location string, data []byte) error
}

type backend interface {
	get(ctx context.Context, loc *Location) (io.ReadCloser, error)
	put(ctx context.Context, loc *Location, data []byte) error
}

// Storage dispatches each location to the backend for its scheme.
// Cloud clients are created on first use.
type Storage struct {
	conf   *config.Config
	stdin  io.Reader
	stdout io.Writer

	mu       sync.Mutex
	backends map[Scheme]backend
}

type Option func(*Storage)

// WithStdio replaces stdin and stdout for the "-" location
func WithStdio(stdin io.Reader, stdout io.Writer) Option {
	return func(s *Storage) {
		s.stdin = stdin
		s.stdout = stdout
	}
}

func New(conf *config.Config, opts ...Option) *Storage {
	s := &Storage{
		conf:     conf,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		backends: make(map[Scheme]backend),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the contents of location. Transport failures are
// returned as a *FetchError.
func (s *Storage) Fetch(ctx context.Context, location string) ([]byte, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	b, err := s.backend(ctx, loc.Scheme)
	if err != nil {
		return nil, err
	}

	logger.Debugw("fetching playlist", "location", loc, "scheme", loc.Scheme)
	r, err := b.get(ctx, loc)
	if err != nil {
		return nil, wrapFetch(loc, err)
	}
	defer func() {
		_ = r.Close()
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &FetchError{Location: loc.Raw, Err: err}
	}
	logger.Debugw("fetched playlist", "location", loc, "bytes", len(data))
	return data, nil
}

// Store writes data to location
func (s *Storage) Store(ctx context.Context, location string, data []byte) error {
	loc, err := ParseLocation(location)
	if err != nil {
		return err
	}

	b, err := s.backend(ctx, loc.Scheme)
	if err != nil {
		return err
	}

	if err = b.put(ctx, loc, data); err != nil {
		return errors.Wrapf(err, "writing %s", loc)
	}
	logger.Debugw("stored playlist", "location", loc, "bytes", len(data))
	return nil
}

func (s *Storage) backend(ctx context.Context, scheme Scheme) (backend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.backends[scheme]; ok {
		return b, nil
	}

	var b backend
	var err error
	switch scheme {
	case SchemeStdio:
		b = &stdioStore{stdin: s.stdin, stdout: s.stdout}
	case SchemeFile:
		b = &localStore{}
	case SchemeHTTP:
		b = newHTTPStore(s.conf.HTTP)
	case SchemeS3:
		b, err = newS3Store(ctx, s.conf.Storage.S3)
	case SchemeGCS:
		b, err = newGCPStore(ctx, s.conf.Storage.GCP)
	case SchemeAzure:
		b, err = newAzureStore(s.conf.Storage.Azure)
	default:
		err = errors.Wrapf(ErrNotSupported, "scheme %q", scheme)
	}
	if err != nil {
		return nil, err
	}

	s.backends[scheme] = b
	return b, nil
}

// wrapFetch leaves location errors as they are and wraps everything else
func wrapFetch(loc *Location, err error) error {
	if errors.Is(err, ErrInvalidLocation) || errors.Is(err, ErrNotSupported) {
		return err
	}
	return &FetchError{Location: loc.Raw, Err: err}
}
