package mineru

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const probeTimeout = 5 * time.Second

// probe caches the reachability of the service. With a zero TTL the first
// result holds for the lifetime of the client; a positive TTL re-checks once
// the cached value expires. Refresh forces a new check.
type probe struct {
	client *http.Client

	url string
	ttl time.Duration

	mu      sync.Mutex
	ok      bool
	checked time.Time
}

func newProbe(client *http.Client, url string, ttl time.Duration) *probe {
	return &probe{
		client: client,

		url: url,
		ttl: ttl,
	}
}

func (p *probe) Available(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.checked.IsZero() || (p.ttl > 0 && time.Since(p.checked) > p.ttl) {
		p.ok = p.check(ctx)
		p.checked = time.Now()
	}

	return p.ok
}

func (p *probe) Refresh(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ok = p.check(ctx)
	p.checked = time.Now()

	return p.ok
}

func (p *probe) check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", p.url+"/docs", nil)

	resp, err := p.client.Do(req)

	if err != nil {
		return false
	}

	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
