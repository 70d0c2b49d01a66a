package warmer

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WarmUpJob asks the runner to cache the Limit most recent public items.
type WarmUpJob struct {
	JobId       string    `json:"job_id"`
	Limit       int       `json:"limit"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// WarmUpResult is published once a WarmUpJob has run. Error is set when the
// run could not list items to warm at all.
type WarmUpResult struct {
	JobId      string        `json:"job_id"`
	Warmed     int           `json:"warmed"`
	Failed     int           `json:"failed"`
	Error      string        `json:"error,omitempty"`
	CacheSize  int64         `json:"cache_size"`
	Latency    time.Duration `json:"latency"`
	FinishedAt time.Time     `json:"finished_at"`
}

func (r WarmUpResult) Succeeded() bool {
	return r.Error == ""
}

func EncodeJob(job *WarmUpJob) ([]byte, error) {
	return json.Marshal(job)
}

func DecodeJob(payload []byte) (*WarmUpJob, error) {
	job := &WarmUpJob{}
	if err := json.Unmarshal(payload, job); err != nil {
		return nil, err
	}
	return job, nil
}

func EncodeResult(result *WarmUpResult) ([]byte, error) {
	return json.Marshal(result)
}

func DecodeResult(payload []byte) (*WarmUpResult, error) {
	result := &WarmUpResult{}
	if err := json.Unmarshal(payload, result); err != nil {
		return nil, err
	}
	return result, nil
}
