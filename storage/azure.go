package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/Azure/azure-storage-blob-go/azblob"
	"github.com/pkg/errors"

	"github.com/turtletowerz/hlssort/config"
)

type azureStore struct {
	serviceURL azblob.ServiceURL
}

func newAzureStore(conf *config.AzureConfig) (backend, error) {
	if conf == nil || conf.AccountName == "" || conf.AccountKey == "" {
		return nil, errors.Wrap(ErrMissingCredentials, "azure storage account name and key are required")
	}

	credential, err := azblob.NewSharedKeyCredential(conf.AccountName, conf.AccountKey)
	if err != nil {
		return nil, err
	}

	azUrl, err := url.Parse(fmt.Sprintf("https://%s.blob.core.windows.net", conf.AccountName))
	if err != nil {
		return nil, err
	}

	pipeline := azblob.NewPipeline(credential, azblob.PipelineOptions{
		Retry: azblob.RetryOptions{
			Policy:        azblob.RetryPolicyExponential,
			MaxTries:      maxAttempts,
			RetryDelay:    minDelay,
			MaxRetryDelay: maxDelay,
		},
	})
	return &azureStore{serviceURL: azblob.NewServiceURL(*azUrl, pipeline)}, nil
}

func (a *azureStore) blobURL(loc *Location) azblob.BlockBlobURL {
	return a.serviceURL.NewContainerURL(loc.Bucket).NewBlockBlobURL(loc.Key)
}

func (a *azureStore) get(ctx context.Context, loc *Location) (io.ReadCloser, error) {
	resp, err := a.blobURL(loc).Download(ctx, 0, azblob.CountToEnd, azblob.BlobAccessConditions{}, false, azblob.ClientProvidedKeyOptions{})
	if err != nil {
		return nil, err
	}
	return resp.Body(azblob.RetryReaderOptions{MaxRetryRequests: maxAttempts}), nil
}

func (a *azureStore) put(ctx context.Context, loc *Location, data []byte) error {
	_, err := azblob.UploadBufferToBlockBlob(ctx, data, a.blobURL(loc), azblob.UploadToBlockBlobOptions{
		BlobHTTPHeaders: azblob.BlobHTTPHeaders{ContentType: contentType},
	})
	return err
}
