package mineru

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"docreader/pkg/parser"
)

const (
	submitTimeout = 30 * time.Second
	statusTimeout = 10 * time.Second
	resultTimeout = 30 * time.Second
)

var _ parser.Provider = &CloudClient{}

// CloudClient targets the task-oriented variant of the service: one submit,
// status polls at a fixed interval under an overall deadline, one result
// fetch after completion is observed.
type CloudClient struct {
	settings

	url string

	probe *probe
}

func NewCloud(url string, options ...Option) (*CloudClient, error) {
	if url == "" {
		url = os.Getenv("MINERU_ENDPOINT")
	}

	if url == "" {
		return nil, errors.New("invalid url")
	}

	c := &CloudClient{
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

func (c *CloudClient) Available(ctx context.Context) bool {
	return c.probe.Available(ctx)
}

func (c *CloudClient) Refresh(ctx context.Context) bool {
	return c.probe.Refresh(ctx)
}

// Parse never returns an error from normal operation: any failure is logged
// and converted into the empty document.
func (c *CloudClient) Parse(ctx context.Context, content []byte) (*parser.Document, error) {
	if !c.probe.Available(ctx) {
		slog.Debug("mineru service not available, skipping parse")
		return parser.Empty(), nil
	}

	slog.Info("submitting document", "size", len(content))

	task, err := c.submit(ctx, content)

	if err != nil {
		slog.Error("mineru submission failed", "error", err)
		return parser.Empty(), nil
	}

	slog.Info("task submitted, waiting for completion", "task", task.ID)

	result, err := c.await(ctx, task)

	if err != nil {
		slog.Error("mineru task failed", "task", task.ID, "state", task.State, "error", err)
		return parser.Empty(), nil
	}

	document, err := buildDocument(ctx, c.store, c.normalizeHTML, result)

	if err != nil {
		slog.Error("mineru result conversion failed", "task", task.ID, "error", err)
		return parser.Empty(), nil
	}

	return document, nil
}

func (c *CloudClient) submit(ctx context.Context, content []byte) (*Task, error) {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	w.WriteField("enable_formula", "true")
	w.WriteField("enable_table", "true")
	w.WriteField("layout_model", c.layoutModel)
	w.WriteField("backend", c.backend)

	f, err := w.CreateFormFile("files", "document")

	if err != nil {
		return nil, err
	}

	if _, err := f.Write(content); err != nil {
		return nil, err
	}

	w.Close()

	req, _ := http.NewRequestWithContext(ctx, "POST", c.url+"/submit", &b)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var response submitResponse

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	taskID := response.TaskID

	if taskID == "" {
		taskID = response.Data.TaskID
	}

	if taskID == "" {
		return nil, errors.New("no task id in response")
	}

	now := time.Now()

	return &Task{
		ID: taskID,

		State: TaskSubmitted,

		SubmittedAt: now,
		Deadline:    now.Add(c.deadline),
	}, nil
}

// await polls task status until a terminal state, then fetches the result.
// Transient status failures are retried on the next tick and count only
// against the overall deadline. The result fetch happens exactly once, and
// only after a poll observed completion.
func (c *CloudClient) await(ctx context.Context, task *Task) (*fileResult, error) {
	pollCtx, cancel := context.WithDeadline(ctx, task.Deadline)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	task.State = TaskPolling

	for {
		select {
		case <-pollCtx.Done():
			task.State = TaskTimeout
			return nil, fmt.Errorf("task %s timed out after %s", task.ID, c.deadline)

		case <-ticker.C:
			status, err := c.status(pollCtx, task.ID)

			if err != nil {
				if pollCtx.Err() != nil {
					continue
				}

				slog.Warn("status check failed, retrying", "task", task.ID, "error", err)
				continue
			}

			switch status.state() {
			case "done", "success":
				task.State = TaskDone
				return c.result(ctx, task.ID)

			case "failed":
				task.State = TaskFailed

				message := status.Error

				if message == "" {
					message = "unknown error"
				}

				return nil, fmt.Errorf("task %s failed: %s", task.ID, message)

			default:
				// still running
			}
		}
	}
}

func (c *CloudClient) status(ctx context.Context, taskID string) (*statusResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", c.url+"/status/"+taskID, nil)

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var response statusResponse

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *CloudClient) result(ctx context.Context, taskID string) (*fileResult, error) {
	ctx, cancel := context.WithTimeout(ctx, resultTimeout)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", c.url+"/result/"+taskID, nil)

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var response resultResponse

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	return response.result(), nil
}
