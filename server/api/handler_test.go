package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"docreader/config"
	"docreader/pkg/parser"
	"docreader/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type echoProvider struct {
}

func (p *echoProvider) Parse(ctx context.Context, content []byte) (*parser.Document, error) {
	return &parser.Document{
		Content: "parsed: " + string(content),

		Images: map[string]string{
			"https://cdn.example.com/1.png": "payload",
		},
	}, nil
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.RegisterParser("echo", &echoProvider{})

	r := chi.NewRouter()

	handler, err := api.New(cfg)
	require.NoError(t, err)

	handler.Attach(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server
}

func multipartBody(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	f, err := w.CreateFormFile("file", "document.pdf")
	require.NoError(t, err)

	_, err = f.Write([]byte(content))
	require.NoError(t, err)

	require.NoError(t, w.Close())

	return &b, w.FormDataContentType()
}

func TestHandleParse(t *testing.T) {
	server := newServer(t)

	body, contentType := multipartBody(t, "%PDF-1.4")

	resp, err := http.Post(server.URL+"/v1/parse?parser=echo", contentType, body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var document api.Document

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&document))

	require.Equal(t, "parsed: %PDF-1.4", document.Content)
	require.Len(t, document.Images, 1)
}

func TestHandleParseDefault(t *testing.T) {
	server := newServer(t)

	body, contentType := multipartBody(t, "%PDF-1.4")

	resp, err := http.Post(server.URL+"/v1/parse", contentType, body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleParseUnknownParser(t *testing.T) {
	server := newServer(t)

	body, contentType := multipartBody(t, "%PDF-1.4")

	resp, err := http.Post(server.URL+"/v1/parse?parser=missing", contentType, body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleParseEmptyBody(t *testing.T) {
	server := newServer(t)

	body, contentType := multipartBody(t, "")

	resp, err := http.Post(server.URL+"/v1/parse?parser=echo", contentType, body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
