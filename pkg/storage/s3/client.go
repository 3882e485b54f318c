package s3

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"strings"

	"docreader/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var _ storage.Provider = &Client{}

type Client struct {
	uploader *manager.Uploader

	bucket string
	prefix string

	region   string
	endpoint string

	accessKey string
	secretKey string
}

func New(bucket string, options ...Option) (*Client, error) {
	if bucket == "" {
		return nil, errors.New("invalid bucket")
	}

	c := &Client{
		bucket: bucket,
	}

	for _, option := range options {
		option(c)
	}

	if c.uploader == nil {
		uploader, err := c.newUploader()

		if err != nil {
			return nil, err
		}

		c.uploader = uploader
	}

	return c, nil
}

func (c *Client) newUploader() (*manager.Uploader, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if c.region != "" {
		opts = append(opts, awsconfig.WithRegion(c.region))
	}

	if c.accessKey != "" && c.secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.accessKey, c.secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)

	if err != nil {
		return nil, err
	}

	var s3opts []func(*s3.Options)

	if c.endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(c.endpoint)
			o.UsePathStyle = true
		})
	}

	return manager.NewUploader(s3.NewFromConfig(cfg, s3opts...)), nil
}

func (c *Client) Upload(ctx context.Context, data []byte, ext string) (string, error) {
	key := uuid.NewString() + normalizeExt(ext)

	if c.prefix != "" {
		key = strings.Trim(c.prefix, "/") + "/" + key
	}

	result, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(ext)),
	})

	if err != nil {
		return "", err
	}

	return result.Location, nil
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

func contentType(ext string) string {
	if val := mime.TypeByExtension(normalizeExt(ext)); val != "" {
		return val
	}

	return "application/octet-stream"
}
