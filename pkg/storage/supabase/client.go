package supabase

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"strings"

	"docreader/pkg/storage"

	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"
)

var _ storage.Provider = &Client{}

type Client struct {
	client *storage_go.Client

	bucket string
	prefix string
}

func New(url, token, bucket string, options ...Option) (*Client, error) {
	if url == "" {
		return nil, errors.New("invalid url")
	}

	if bucket == "" {
		return nil, errors.New("invalid bucket")
	}

	c := &Client{
		client: storage_go.NewClient(strings.TrimRight(url, "/")+"/storage/v1", token, nil),

		bucket: bucket,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Upload(ctx context.Context, data []byte, ext string) (string, error) {
	path := uuid.NewString() + normalizeExt(ext)

	if c.prefix != "" {
		path = strings.Trim(c.prefix, "/") + "/" + path
	}

	contentType := mime.TypeByExtension(normalizeExt(ext))

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := c.client.UploadFile(c.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
	}); err != nil {
		return "", err
	}

	return c.client.GetPublicUrl(c.bucket, path).SignedURL, nil
}

func normalizeExt(ext string) string {
	if ext == "" {
		return ""
	}

	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return strings.ToLower(ext)
}
