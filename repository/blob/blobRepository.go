package blobrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"bookshop/util/httpx"
)

// Repo is the blob-store collaborator holding cover images and borrower
// ID cards. Paths returned by Upload are opaque attributes; PublicURL
// turns a stored path into something a client can fetch.
type Repo interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
	PublicURL(bucket, path string) string
}

type httpRepo struct {
	base   string
	apiKey string
	client *resty.Client
}

// NewHTTP talks to a Supabase-storage-compatible object API. With an
// empty base URL uploads fail and PublicURL passes paths through, so
// the service still runs without a configured store.
func NewHTTP(baseURL, apiKey string) Repo {
	c := resty.NewWithClient(httpx.Client())
	return &httpRepo{base: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: c}
}

func (r *httpRepo) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	if r.base == "" {
		return "", errors.New("blob store not configured")
	}
	resp, err := r.client.R().
		SetContext(ctx).
		SetAuthToken(r.apiKey).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Post(fmt.Sprintf("%s/storage/v1/object/%s/%s", r.base, bucket, path))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("blob upload failed: %s", resp.Status())
	}
	return path, nil
}

func (r *httpRepo) PublicURL(bucket, path string) string {
	if path == "" || strings.HasPrefix(path, "http") || r.base == "" {
		// Already a full URL, or nothing to resolve against.
		return path
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", r.base, bucket, path)
}
