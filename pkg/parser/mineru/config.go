package mineru

import (
	"net/http"
	"time"

	"docreader/pkg/storage"
)

type settings struct {
	client *http.Client

	store storage.Provider

	normalizeHTML bool

	probeTTL time.Duration

	languages []string

	startPage int
	endPage   int

	parseMethod string
	backend     string
	layoutModel string

	timeout      time.Duration
	pollInterval time.Duration
	deadline     time.Duration
}

func defaultSettings() settings {
	return settings{
		client: http.DefaultClient,

		normalizeHTML: true,

		languages: []string{"ch", "en"},

		startPage: 0,
		endPage:   99999,

		parseMethod: "auto",
		backend:     "pipeline",
		layoutModel: "doclayout_yolo",

		timeout:      1000 * time.Second,
		pollInterval: 2 * time.Second,
		deadline:     600 * time.Second,
	}
}

// Option configures either client variant. Options that only apply to one
// variant are ignored by the other.
type Option func(*settings)

func WithClient(client *http.Client) Option {
	return func(s *settings) {
		s.client = client
	}
}

// WithStorage sets the store used to rehost extracted images. Without a store
// images are left embedded as their original references.
func WithStorage(store storage.Provider) Option {
	return func(s *settings) {
		s.store = store
	}
}

// WithNormalizeHTML toggles conversion of embedded HTML tables to markdown.
func WithNormalizeHTML(enabled bool) Option {
	return func(s *settings) {
		s.normalizeHTML = enabled
	}
}

// WithProbeTTL re-checks service availability once the cached probe result is
// older than ttl. Zero caches the construction-time result for the lifetime
// of the client.
func WithProbeTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.probeTTL = ttl
	}
}

func WithLanguages(languages ...string) Option {
	return func(s *settings) {
		s.languages = languages
	}
}

func WithPageRange(start, end int) Option {
	return func(s *settings) {
		s.startPage = start
		s.endPage = end
	}
}

func WithBackend(backend string) Option {
	return func(s *settings) {
		s.backend = backend
	}
}

func WithLayoutModel(model string) Option {
	return func(s *settings) {
		s.layoutModel = model
	}
}

// WithTimeout bounds the single blocking request of the synchronous client.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.timeout = timeout
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(s *settings) {
		s.pollInterval = interval
	}
}

// WithDeadline bounds the total wall-clock time from submission to terminal
// outcome of the asynchronous client.
func WithDeadline(deadline time.Duration) Option {
	return func(s *settings) {
		s.deadline = deadline
	}
}
