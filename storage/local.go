package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type localStore struct{}

func (l *localStore) get(_ context.Context, loc *Location) (io.ReadCloser, error) {
	info, err := os.Stat(loc.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrInvalidLocation, "%s does not exist", loc.Path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.Wrapf(ErrInvalidLocation, "%s is a directory", loc.Path)
	}
	return os.Open(loc.Path)
}

func (l *localStore) put(_ context.Context, loc *Location, data []byte) error {
	if dir := filepath.Dir(loc.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(loc.Path, data, 0644)
}

type stdioStore struct {
	stdin  io.Reader
	stdout io.Writer
}

func (s *stdioStore) get(_ context.Context, _ *Location) (io.ReadCloser, error) {
	return io.NopCloser(s.stdin), nil
}

func (s *stdioStore) put(_ context.Context, _ *Location, data []byte) error {
	_, err := s.stdout.Write(data)
	return err
}
