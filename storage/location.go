package storage

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type Scheme string

const (
	SchemeStdio Scheme = "-"
	SchemeFile  Scheme = "file"
	SchemeHTTP  Scheme = "http"
	SchemeS3    Scheme = "s3"
	SchemeGCS   Scheme = "gs"
	SchemeAzure Scheme = "azblob"
)

// Location is a parsed playlist location.
//
//	-                          stdin or stdout
//	path, file://path          local file
//	http://..., https://...    read only
//	s3://bucket/key
//	gs://bucket/object
//	azblob://container/blob
type Location struct {
	Scheme Scheme
	Bucket string // bucket or container
	Key    string // object key or blob name
	Path   string // local path
	URL    string // http(s) url
	Raw    string
}

func (l *Location) String() string {
	return l.Raw
}

// ParseLocation classifies raw by its scheme
func ParseLocation(raw string) (*Location, error) {
	raw = strings.TrimSpace(raw)
	loc := &Location{Raw: raw}

	switch {
	case raw == "":
		return nil, errors.Wrap(ErrInvalidLocation, "empty location")
	case raw == "-":
		loc.Scheme = SchemeStdio
		return loc, nil
	case !strings.Contains(raw, "://"):
		loc.Scheme = SchemeFile
		loc.Path = filepath.Clean(raw)
		return loc, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidLocation, "%s: %v", raw, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		loc.Scheme = SchemeFile
		loc.Path = filepath.FromSlash(u.Host + u.Path)
		if loc.Path == "" {
			return nil, errors.Wrapf(ErrInvalidLocation, "%s has no path", raw)
		}
		return loc, nil
	case "http", "https":
		if u.Host == "" {
			return nil, errors.Wrapf(ErrInvalidLocation, "%s has no host", raw)
		}
		loc.Scheme = SchemeHTTP
		loc.URL = u.String()
		return loc, nil
	case "s3":
		loc.Scheme = SchemeS3
	case "gs":
		loc.Scheme = SchemeGCS
	case "azblob":
		loc.Scheme = SchemeAzure
	default:
		return nil, errors.Wrapf(ErrNotSupported, "scheme %q", u.Scheme)
	}

	loc.Bucket = u.Host
	loc.Key = strings.TrimPrefix(u.Path, "/")
	if loc.Bucket == "" || loc.Key == "" {
		return nil, errors.Wrapf(ErrInvalidLocation, "%s must name a bucket and an object", raw)
	}
	return loc, nil
}
