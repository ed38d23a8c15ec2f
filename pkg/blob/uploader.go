// Package blob stores remote assets in object storage. The reconciler and
// the thumbnail workflow treat it as a black box: give it a URL, get back a
// stored object key and a public URL, or an error.
package blob

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

type StoredObject struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type Uploader interface {
	UploadFromURL(ctx context.Context, remoteURL string) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

type minioUploader struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	httpClient    *http.Client
}

func NewUploader(client *minio.Client, bucket, publicBaseURL string) Uploader {
	return &minioUploader{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		httpClient:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (u *minioUploader) UploadFromURL(ctx context.Context, remoteURL string) (*StoredObject, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", remoteURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", remoteURL, resp.StatusCode)
	}

	key := uuid.New().String() + path.Ext(strings.SplitN(remoteURL, "?", 2)[0])
	_, err = u.client.PutObject(ctx, u.bucket, key, resp.Body, resp.ContentLength, minio.PutObjectOptions{
		ContentType: resp.Header.Get("Content-Type"),
	})
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", key, err)
	}

	return &StoredObject{
		Key: key,
		URL: fmt.Sprintf("%s/%s/%s", u.publicBaseURL, u.bucket, key),
	}, nil
}

func (u *minioUploader) Delete(ctx context.Context, key string) error {
	return u.client.RemoveObject(ctx, u.bucket, key, minio.RemoveObjectOptions{})
}
