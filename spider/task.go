package spider

import (
	"context"
)

// TaskConfig is the [crawl] section of the configuration file.
type TaskConfig struct {
	Name           string        `json:"name"`
	StartURL       string        `json:"startURL"`
	AllowedDomains []string      `json:"allowedDomains"`
	Cookie         string        `json:"cookie"`
	WaitTime       int64         `json:"waitTime"`
	MaxDepth       int64         `json:"maxDepth"`
	Workers        int           `json:"workers"`
	Vocabulary     string        `json:"vocabulary"`
	Limits         []LimitConfig `json:"limits"`
}

type LimitConfig struct {
	EventCount    int `json:"eventCount"`
	EventDuration int `json:"eventDuration"` //second
	Bucket        int `json:"bucket"`        //size of bucket
}

type Task struct {
	Rule RuleTree
	Options
}

func NewTask(opts ...Option) *Task {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Task{Options: options}
}

type Fetcher interface {
	Get(ctx context.Context, req *Request) ([]byte, error)
}

type Storage interface {
	Save(dataCells ...*DataCell) error
}

// DataCell is the unit handed to Storage.
type DataCell struct {
	Task *Task
	Data map[string]interface{}
}

func (d *DataCell) GetTaskName() string {
	return d.Data["Task"].(string)
}
