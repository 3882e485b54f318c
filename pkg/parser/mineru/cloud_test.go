package mineru_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"docreader/pkg/parser/mineru"

	"github.com/stretchr/testify/require"
)

type taskServer struct {
	submits atomic.Int32
	polls   atomic.Int32
	fetches atomic.Int32

	submitBody func() any
	statusBody func(poll int32) any
	resultBody func() any
}

func (s *taskServer) start(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		s.submits.Add(1)
		json.NewEncoder(w).Encode(s.submitBody())
	})

	mux.HandleFunc("/status/", func(w http.ResponseWriter, r *http.Request) {
		poll := s.polls.Add(1)

		body := s.statusBody(poll)

		if text, ok := body.(string); ok {
			w.Write([]byte(text))
			return
		}

		json.NewEncoder(w).Encode(body)
	})

	mux.HandleFunc("/result/", func(w http.ResponseWriter, r *http.Request) {
		s.fetches.Add(1)
		json.NewEncoder(w).Encode(s.resultBody())
	})

	return httptest.NewServer(mux)
}

func TestCloudParse(t *testing.T) {
	s := &taskServer{
		submitBody: func() any {
			return map[string]any{"task_id": "t1"}
		},

		statusBody: func(poll int32) any {
			if poll < 4 {
				return map[string]any{"status": "running"}
			}

			return map[string]any{"status": "done"}
		},

		resultBody: func() any {
			return map[string]any{
				"result": map[string]any{
					"md_content": "# Report",
				},
			}
		},
	}

	server := s.start(t)
	defer server.Close()

	c, err := mineru.NewCloud(server.URL, mineru.WithPollInterval(10*time.Millisecond), mineru.WithNormalizeHTML(false))
	require.NoError(t, err)

	document, err := c.Parse(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)

	require.Equal(t, "# Report", document.Content)

	require.EqualValues(t, 1, s.submits.Load())
	require.EqualValues(t, 4, s.polls.Load())
	require.EqualValues(t, 1, s.fetches.Load())
}

func TestCloudParseNestedTaskID(t *testing.T) {
	s := &taskServer{
		submitBody: func() any {
			return map[string]any{"data": map[string]any{"task_id": "t2"}}
		},

		statusBody: func(poll int32) any {
			return map[string]any{"state": "success"}
		},

		resultBody: func() any {
			return map[string]any{"md_content": "# Nested"}
		},
	}

	server := s.start(t)
	defer server.Close()

	c, err := mineru.NewCloud(server.URL, mineru.WithPollInterval(10*time.Millisecond), mineru.WithNormalizeHTML(false))
	require.NoError(t, err)

	document, err := c.Parse(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)

	require.Equal(t, "# Nested", document.Content)
}

func TestCloudParseTransientStatusFailure(t *testing.T) {
	s := &taskServer{
		submitBody: func() any {
			return map[string]any{"task_id": "t3"}
		},

		statusBody: func(poll int32) any {
			if poll < 3 {
				return "not json"
			}

			return map[string]any{"status": "done"}
		},

		resultBody: func() any {
			return map[string]any{"md_content": "# Recovered"}
		},
	}

	server := s.start(t)
	defer server.Close()

	c, err := mineru.NewCloud(server.URL, mineru.WithPollInterval(10*time.Millisecond), mineru.WithNormalizeHTML(false))
	require.NoError(t, err)

	document, err := c.Parse(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)

	require.Equal(t, "# Recovered", document.Content)
	require.EqualValues(t, 3, s.polls.Load())
}

func TestCloudParseTaskFailed(t *testing.T) {
	s := &taskServer{
		submitBody: func() any {
			return map[string]any{"task_id": "t4"}
		},

		statusBody: func(poll int32) any {
			return map[string]any{"status": "failed", "error": "corrupt document"}
		},

		resultBody: func() any {
			return map[string]any{}
		},
	}

	server := s.start(t)
	defer server.Close()

	c, err := mineru.NewCloud(server.URL, mineru.WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)

	document, err := c.Parse(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)

	require.True(t, document.IsEmpty())

	require.EqualValues(t, 1, s.polls.Load())
	require.EqualValues(t, 0, s.fetches.Load())
}

func TestCloudParseDeadline(t *testing.T) {
	s := &taskServer{
		submitBody: func() any {
			return map[string]any{"task_id": "t5"}
		},

		statusBody: func(poll int32) any {
			return map[string]any{"status": "running"}
		},

		resultBody: func() any {
			return map[string]any{}
		},
	}

	server := s.start(t)
	defer server.Close()

	c, err := mineru.NewCloud(server.URL, mineru.WithPollInterval(10*time.Millisecond), mineru.WithDeadline(100*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()

	document, err := c.Parse(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)

	require.True(t, document.IsEmpty())
	require.Less(t, time.Since(start), 2*time.Second)

	require.EqualValues(t, 0, s.fetches.Load())
}

func TestCloudParseMissingTaskID(t *testing.T) {
	s := &taskServer{
		submitBody: func() any {
			return map[string]any{}
		},

		statusBody: func(poll int32) any {
			return map[string]any{"status": "done"}
		},

		resultBody: func() any {
			return map[string]any{}
		},
	}

	server := s.start(t)
	defer server.Close()

	c, err := mineru.NewCloud(server.URL, mineru.WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)

	document, err := c.Parse(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)

	require.True(t, document.IsEmpty())

	require.EqualValues(t, 0, s.polls.Load())
	require.EqualValues(t, 0, s.fetches.Load())
}

func TestCloudParseUnknownStatus(t *testing.T) {
	s := &taskServer{
		submitBody: func() any {
			return map[string]any{"task_id": "t6"}
		},

		statusBody: func(poll int32) any {
			if poll == 1 {
				return map[string]any{"status": "queued"}
			}

			return map[string]any{"status": "done"}
		},

		resultBody: func() any {
			return map[string]any{"md_content": "# Queued"}
		},
	}

	server := s.start(t)
	defer server.Close()

	c, err := mineru.NewCloud(server.URL, mineru.WithPollInterval(10*time.Millisecond), mineru.WithNormalizeHTML(false))
	require.NoError(t, err)

	document, err := c.Parse(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)

	require.Equal(t, "# Queued", document.Content)
}
