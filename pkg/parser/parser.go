package parser

import (
	"context"
)

type Provider interface {
	Parse(ctx context.Context, content []byte) (*Document, error)
}

// Document is the result of one parse call. Images maps the rehosted URL of
// each extracted image to its original base64 payload. Every key occurs
// literally in Content.
type Document struct {
	Content string

	Images map[string]string
}

// Empty returns the sentinel document used for unavailable or failed parses.
// Providers return it with a nil error; callers cannot distinguish it from a
// document that legitimately produced no content.
func Empty() *Document {
	return &Document{
		Images: map[string]string{},
	}
}

// IsEmpty reports whether d carries neither content nor images.
func (d *Document) IsEmpty() bool {
	return d == nil || (d.Content == "" && len(d.Images) == 0)
}
