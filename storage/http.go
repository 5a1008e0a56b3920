package storage

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/googleapis/gax-go/v2"
	"github.com/pkg/errors"

	"github.com/turtletowerz/hlssort/config"
	"github.com/turtletowerz/hlssort/logger"
)

const (
	minDelay = time.Millisecond * 100
	maxDelay = time.Second * 5
)

type httpStore struct {
	client     *http.Client
	userAgent  string
	maxRetries int
	backoff    gax.Backoff
}

func newHTTPStore(conf config.HTTPConfig) *httpStore {
	return &httpStore{
		client:     &http.Client{Timeout: conf.Timeout},
		userAgent:  conf.UserAgent,
		maxRetries: conf.MaxRetries,
		backoff: gax.Backoff{
			Initial:    minDelay,
			Max:        maxDelay,
			Multiplier: 2,
		},
	}
}

// get retries network errors, 5xx and 429 responses with exponential backoff
func (h *httpStore) get(ctx context.Context, loc *Location) (io.ReadCloser, error) {
	backoff := h.backoff
	for attempt := 0; ; attempt++ {
		body, retry, err := h.try(ctx, loc)
		if err == nil {
			return body, nil
		}
		if !retry || attempt >= h.maxRetries || ctx.Err() != nil {
			return nil, err
		}

		pause := backoff.Pause()
		logger.Warnw("retrying playlist fetch", err, "location", loc, "attempt", attempt+1, "pause", pause)
		if err := gax.Sleep(ctx, pause); err != nil {
			return nil, err
		}
	}
}

func (h *httpStore) try(ctx context.Context, loc *Location) (io.ReadCloser, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.URL, nil)
	if err != nil {
		return nil, false, err
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, true, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, errors.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, false, nil
}

func (h *httpStore) put(_ context.Context, loc *Location, _ []byte) error {
	return errors.Wrapf(ErrNotSupported, "writing to %s", loc.URL)
}
