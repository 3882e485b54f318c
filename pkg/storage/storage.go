package storage

import (
	"context"
)

// Provider persists raw bytes and returns a public URL. Implementations must
// be safe for concurrent use, since images of one rehosting batch are
// uploaded in parallel.
type Provider interface {
	Upload(ctx context.Context, data []byte, ext string) (string, error)
}
