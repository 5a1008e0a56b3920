package storage

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/turtletowerz/hlssort/config"
)

const playlist = "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=1000\nlow.m3u8\n"

func newTestStorage(t *testing.T, opts ...Option) *Storage {
	conf, err := config.NewConfig("")
	require.NoError(t, err)
	return New(conf, opts...)
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw  string
		want Location
	}{
		{"-", Location{Scheme: SchemeStdio, Raw: "-"}},
		{"master.m3u8", Location{Scheme: SchemeFile, Path: "master.m3u8", Raw: "master.m3u8"}},
		{"./out/../master.m3u8", Location{Scheme: SchemeFile, Path: "master.m3u8", Raw: "./out/../master.m3u8"}},
		{"file:///tmp/master.m3u8", Location{Scheme: SchemeFile, Path: filepath.FromSlash("/tmp/master.m3u8"), Raw: "file:///tmp/master.m3u8"}},
		{"https://cdn.example.com/vod/master.m3u8?token=1", Location{Scheme: SchemeHTTP, URL: "https://cdn.example.com/vod/master.m3u8?token=1", Raw: "https://cdn.example.com/vod/master.m3u8?token=1"}},
		{"s3://media/vod/master.m3u8", Location{Scheme: SchemeS3, Bucket: "media", Key: "vod/master.m3u8", Raw: "s3://media/vod/master.m3u8"}},
		{"gs://media/master.m3u8", Location{Scheme: SchemeGCS, Bucket: "media", Key: "master.m3u8", Raw: "gs://media/master.m3u8"}},
		{"azblob://videos/a/master.m3u8", Location{Scheme: SchemeAzure, Bucket: "videos", Key: "a/master.m3u8", Raw: "azblob://videos/a/master.m3u8"}},
	}

	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			loc, err := ParseLocation(test.raw)
			require.NoError(t, err)
			assert.Equal(t, test.want, *loc)
		})
	}
}

func TestParseLocationErrors(t *testing.T) {
	for raw, want := range map[string]error{
		"":                ErrInvalidLocation,
		"s3://bucket":     ErrInvalidLocation,
		"gs:///object":    ErrInvalidLocation,
		"http://":         ErrInvalidLocation,
		"ftp://host/a":    ErrNotSupported,
		"rtmp://live/key": ErrNotSupported,
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseLocation(raw)
			assert.True(t, errors.Is(err, want), "got %v", err)
		})
	}
}

func TestLocalStore(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sorted", "master.m3u8")

	require.NoError(t, s.Store(ctx, path, []byte(playlist)))
	data, err := s.Fetch(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, playlist, string(data))

	data, err = s.Fetch(ctx, "file://"+filepath.ToSlash(path))
	require.NoError(t, err)
	assert.Equal(t, playlist, string(data))
}

func TestLocalStoreMissingPath(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.m3u8"))
	assert.True(t, errors.Is(err, ErrInvalidLocation), "got %v", err)

	var fetchErr *FetchError
	assert.False(t, errors.As(err, &fetchErr))

	_, err = s.Fetch(context.Background(), t.TempDir())
	assert.True(t, errors.Is(err, ErrInvalidLocation), "got %v", err)
}

func TestStdioStore(t *testing.T) {
	var out bytes.Buffer
	s := newTestStorage(t, WithStdio(strings.NewReader(playlist), &out))

	data, err := s.Fetch(context.Background(), "-")
	require.NoError(t, err)
	assert.Equal(t, playlist, string(data))

	require.NoError(t, s.Store(context.Background(), "-", data))
	assert.Equal(t, playlist, out.String())
}

func TestHTTPStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "hlssort", r.UserAgent())
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(playlist))
	}))
	defer server.Close()

	s := newTestStorage(t)
	data, err := s.Fetch(context.Background(), server.URL+"/master.m3u8")
	require.NoError(t, err)
	assert.Equal(t, playlist, string(data))

	err = s.Store(context.Background(), server.URL+"/master.m3u8", data)
	assert.True(t, errors.Is(err, ErrNotSupported), "got %v", err)
}

func fastHTTPStore(retries int) *httpStore {
	h := newHTTPStore(config.HTTPConfig{Timeout: time.Second, MaxRetries: retries, UserAgent: "test"})
	h.backoff = gax.Backoff{Initial: time.Millisecond, Max: time.Millisecond, Multiplier: 1}
	return h
}

func TestHTTPStoreRetries(t *testing.T) {
	requests := atomic.NewInt32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Inc() < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(playlist))
	}))
	defer server.Close()

	s := newTestStorage(t)
	s.backends[SchemeHTTP] = fastHTTPStore(3)

	data, err := s.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, playlist, string(data))
	assert.EqualValues(t, 3, requests.Load())
}

func TestHTTPStoreFailures(t *testing.T) {
	requests := atomic.NewInt32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Inc()
		switch r.URL.Path {
		case "/missing.m3u8":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	s := newTestStorage(t)
	s.backends[SchemeHTTP] = fastHTTPStore(2)

	_, err := s.Fetch(context.Background(), server.URL+"/missing.m3u8")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr), "got %v", err)
	assert.Equal(t, server.URL+"/missing.m3u8", fetchErr.Location)
	assert.EqualValues(t, 1, requests.Load(), "4xx is not retried")

	requests.Store(0)
	_, err = s.Fetch(context.Background(), server.URL+"/flaky.m3u8")
	require.True(t, errors.As(err, &fetchErr), "got %v", err)
	assert.EqualValues(t, 3, requests.Load())
}

func TestHTTPStoreCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Fetch(ctx, server.URL)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestAzureRequiresCredentials(t *testing.T) {
	t.Setenv("AZURE_STORAGE_ACCOUNT", "")
	t.Setenv("AZURE_STORAGE_KEY", "")

	s := newTestStorage(t)
	_, err := s.Fetch(context.Background(), "azblob://videos/master.m3u8")
	assert.True(t, errors.Is(err, ErrMissingCredentials), "got %v", err)
}

func TestFetchErrorUnwrap(t *testing.T) {
	err := &FetchError{Location: "https://example.com/master.m3u8", Err: os.ErrDeadlineExceeded}
	assert.True(t, errors.Is(err, os.ErrDeadlineExceeded))
	assert.Equal(t, "fetching https://example.com/master.m3u8: "+os.ErrDeadlineExceeded.Error(), err.Error())
}
