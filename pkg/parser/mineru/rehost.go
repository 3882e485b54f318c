package mineru

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"docreader/pkg/storage"
)

var dataURIPattern = regexp.MustCompile(`^data:image/(\w+);base64,(.*)$`)

// imageData is the decoded form of a data-URI envelope.
type imageData struct {
	Ext string

	Payload string
}

func parseDataURI(value string) (*imageData, error) {
	match := dataURIPattern.FindStringSubmatch(value)

	if match == nil {
		return nil, errors.New("malformed data uri")
	}

	return &imageData{
		Ext: match[1],

		Payload: match[2],
	}, nil
}

const uploadConcurrency = 4

// rehost uploads every image that is actually referenced in the markdown and
// rewrites its reference to the returned URL. Unreferenced images are never
// decoded or uploaded. Per-image failures skip that image only; its original
// reference stays verbatim. The substitution runs as a single pass after all
// uploads so no reference is ever left half-rewritten.
func rehost(ctx context.Context, store storage.Provider, markdown string, images map[string]string) (string, map[string]string) {
	result := map[string]string{}

	if store == nil || len(images) == 0 {
		return markdown, result
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	sem := make(chan struct{}, uploadConcurrency)

	replacements := map[string]string{}

	for path, value := range images {
		ref := "images/" + path

		if !strings.Contains(markdown, ref) {
			slog.Debug("image not referenced in markdown", "image", path)
			continue
		}

		image, err := parseDataURI(value)

		if err != nil {
			slog.Warn("skipping image with malformed payload", "image", path, "error", err)
			continue
		}

		data, err := base64.StdEncoding.DecodeString(image.Payload)

		if err != nil {
			slog.Warn("skipping image with invalid base64 data", "image", path, "error", err)
			continue
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(ref, payload, ext string, data []byte) {
			defer wg.Done()
			defer func() { <-sem }()

			url, err := store.Upload(ctx, data, "."+ext)

			if err != nil {
				slog.Warn("image upload failed", "image", ref, "error", err)
				return
			}

			mu.Lock()
			defer mu.Unlock()

			result[url] = payload
			replacements[ref] = url
		}(ref, image.Payload, image.Ext, data)
	}

	wg.Wait()

	if len(replacements) == 0 {
		return markdown, result
	}

	pairs := make([]string, 0, len(replacements)*2)

	for ref, url := range replacements {
		pairs = append(pairs, ref, url)
	}

	return strings.NewReplacer(pairs...).Replace(markdown), result
}
