package s3

import (
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
)

type Option func(*Client)

func WithUploader(uploader *manager.Uploader) Option {
	return func(c *Client) {
		c.uploader = uploader
	}
}

func WithPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = prefix
	}
}

func WithRegion(region string) Option {
	return func(c *Client) {
		c.region = region
	}
}

// WithEndpoint targets an S3-compatible service using path-style addressing.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

func WithCredentials(accessKey, secretKey string) Option {
	return func(c *Client) {
		c.accessKey = accessKey
		c.secretKey = secretKey
	}
}
