package kafka

import (
	"errors"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

var ErrInvalidJob = errors.New("invalid ingestion job")

// Job 一条采集任务，按账号分区保证同一账号的任务有序
type Job struct {
	Type       string    `json:"type"`
	AccountID  uint64    `json:"account_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

func (j Job) key() []byte {
	return []byte(strconv.FormatUint(j.AccountID, 10))
}

func DecodeJob(data []byte) (*Job, error) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, errors.Join(ErrInvalidJob, err)
	}
	if job.Type == "" || job.AccountID == 0 {
		return nil, ErrInvalidJob
	}
	return &job, nil
}
