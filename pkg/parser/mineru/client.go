package mineru

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"docreader/pkg/parser"
	"docreader/pkg/storage"
	"docreader/pkg/text"
)

var _ parser.Provider = &Client{}

// Client calls the synchronous /file_parse endpoint: one blocking multipart
// request carrying the whole document, markdown and inline images in the
// response.
type Client struct {
	settings

	url string

	probe *probe
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		url = os.Getenv("MINERU_ENDPOINT")
	}

	if url == "" {
		return nil, errors.New("invalid url")
	}

	c := &Client{
		settings: defaultSettings(),

		url: strings.TrimRight(url, "/"),
	}

	for _, option := range options {
		option(&c.settings)
	}

	c.probe = newProbe(c.client, c.url, c.probeTTL)
	c.probe.Refresh(context.Background())

	return c, nil
}

// Available reports the cached reachability of the service.
func (c *Client) Available(ctx context.Context) bool {
	return c.probe.Available(ctx)
}

// Refresh re-checks reachability regardless of the cached probe result.
func (c *Client) Refresh(ctx context.Context) bool {
	return c.probe.Refresh(ctx)
}

// Parse never returns an error from normal operation: any failure is logged
// and converted into the empty document.
func (c *Client) Parse(ctx context.Context, content []byte) (*parser.Document, error) {
	if !c.probe.Available(ctx) {
		slog.Debug("mineru service not available, skipping parse")
		return parser.Empty(), nil
	}

	slog.Info("parsing document", "size", len(content))

	result, err := c.parse(ctx, content)

	if err != nil {
		slog.Error("mineru parsing failed", "error", err)
		return parser.Empty(), nil
	}

	document, err := buildDocument(ctx, c.store, c.normalizeHTML, result)

	if err != nil {
		slog.Error("mineru result conversion failed", "error", err)
		return parser.Empty(), nil
	}

	return document, nil
}

func (c *Client) parse(ctx context.Context, content []byte) (*fileResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	w.WriteField("return_md", "true")
	w.WriteField("return_images", "true")

	for _, lang := range c.languages {
		w.WriteField("lang_list", lang)
	}

	w.WriteField("table_enable", "true")
	w.WriteField("formula_enable", "true")
	w.WriteField("parse_method", c.parseMethod)
	w.WriteField("start_page_id", strconv.Itoa(c.startPage))
	w.WriteField("end_page_id", strconv.Itoa(c.endPage))
	w.WriteField("backend", c.backend)
	w.WriteField("response_format_zip", "false")
	w.WriteField("return_middle_json", "false")
	w.WriteField("return_model_output", "false")
	w.WriteField("return_content_list", "false")

	f, err := w.CreateFormFile("files", "document")

	if err != nil {
		return nil, err
	}

	if _, err := f.Write(content); err != nil {
		return nil, err
	}

	w.Close()

	req, _ := http.NewRequestWithContext(ctx, "POST", c.url+"/file_parse", &b)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var response fileParseResponse

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	return &response.Results.Files, nil
}

func buildDocument(ctx context.Context, store storage.Provider, normalize bool, result *fileResult) (*parser.Document, error) {
	content := result.MarkdownContent

	if normalize {
		converted, err := text.NormalizeHTML(content)

		if err != nil {
			return nil, err
		}

		content = converted
	}

	content, images := rehost(ctx, store, content, result.Images)

	return &parser.Document{
		Content: content,

		Images: images,
	}, nil
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}

	return errors.New(string(data))
}
