package mineru

import (
	"time"
)

// TaskState is the lifecycle state of an asynchronous parse task. Transitions
// are monotonic: submitted → polling → done | failed | timeout.
type TaskState string

const (
	TaskSubmitted TaskState = "submitted"
	TaskPolling   TaskState = "polling"
	TaskDone      TaskState = "done"
	TaskFailed    TaskState = "failed"
	TaskTimeout   TaskState = "timeout"
)

// Task tracks one submitted parse job until a terminal state is reached.
type Task struct {
	ID string

	State TaskState

	SubmittedAt time.Time
	Deadline    time.Time
}

type fileResult struct {
	MarkdownContent string `json:"md_content"`

	Images map[string]string `json:"images"`
}

type fileParseResponse struct {
	Results struct {
		Files fileResult `json:"files"`
	} `json:"results"`
}

type submitResponse struct {
	TaskID string `json:"task_id"`

	Data struct {
		TaskID string `json:"task_id"`
	} `json:"data"`
}

type statusResponse struct {
	Status string `json:"status"`
	State  string `json:"state"`

	Error string `json:"error"`
}

// state returns the reported status, tolerating either field name.
func (r *statusResponse) state() string {
	if r.Status != "" {
		return r.Status
	}

	return r.State
}

type resultResponse struct {
	fileResult

	Result *fileResult `json:"result"`
}

// result normalizes the envelope: payload either top-level or nested.
func (r *resultResponse) result() *fileResult {
	if r.Result != nil {
		return r.Result
	}

	return &r.fileResult
}
