package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/googleapis/gax-go/v2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/turtletowerz/hlssort/config"
)

const (
	storageScope = "https://www.googleapis.com/auth/devstorage.read_write"
	maxAttempts  = 5
)

type gcpStore struct {
	client *gcs.Client
}

func newGCPStore(ctx context.Context, conf *config.GCPConfig) (backend, error) {
	var opts []option.ClientOption
	if conf != nil && conf.CredentialsJSON != "" {
		jwtConfig, err := google.JWTConfigFromJSON([]byte(conf.CredentialsJSON), storageScope)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	}

	c, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &gcpStore{client: c}, nil
}

func (g *gcpStore) object(loc *Location) *gcs.ObjectHandle {
	return g.client.Bucket(loc.Bucket).Object(loc.Key).Retryer(
		gcs.WithBackoff(gax.Backoff{
			Initial:    minDelay,
			Max:        maxDelay,
			Multiplier: 2,
		}),
		gcs.WithMaxAttempts(maxAttempts),
		gcs.WithPolicy(gcs.RetryAlways),
	)
}

func (g *gcpStore) get(ctx context.Context, loc *Location) (io.ReadCloser, error) {
	return g.object(loc).NewReader(ctx)
}

func (g *gcpStore) put(ctx context.Context, loc *Location, data []byte) error {
	wc := g.object(loc).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}
