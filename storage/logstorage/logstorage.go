// Package logstorage writes crawled records to a zap logger, one entry per
// record with a field per item column.
package logstorage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/wenzapen/vacancies/spider"
	"go.uber.org/zap"
)

var ErrNoData = errors.New("data cell has no data")

type LogStorage struct {
	mu         sync.Mutex
	dataDocker []*spider.DataCell
	options
}

func New(opts ...Option) *LogStorage {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.BatchCount < 1 {
		options.BatchCount = 1
	}
	return &LogStorage{options: options}
}

// Save buffers cells and flushes every BatchCount of them.
func (s *LogStorage) Save(dataCells ...*spider.DataCell) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, cell := range dataCells {
		s.dataDocker = append(s.dataDocker, cell)
		if len(s.dataDocker) >= s.BatchCount {
			if err := s.flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Flush writes whatever is buffered.
func (s *LogStorage) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

func (s *LogStorage) flush() error {
	if len(s.dataDocker) == 0 {
		return nil
	}
	defer func() {
		s.dataDocker = nil
	}()

	var errs []error
	for _, cell := range s.dataDocker {
		fields, err := getFields(cell)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.logger.Info(s.Message, fields...)
	}
	return errors.Join(errs...)
}

func getFields(cell *spider.DataCell) ([]zap.Field, error) {
	data, ok := cell.Data["Data"]
	if !ok || data == nil {
		return nil, ErrNoData
	}
	ruleName, _ := cell.Data["Rule"].(string)

	var columns []string
	if cell.Task != nil {
		if rule, ok := cell.Task.Rule.Trunk[ruleName]; ok {
			columns = rule.ItemFields
		}
	}

	fields := []zap.Field{
		zap.String("task", cell.GetTaskName()),
		zap.String("rule", ruleName),
	}
	for _, key := range []string{"URL", "Time", "CrawlID"} {
		if v, ok := cell.Data[key].(string); ok {
			fields = append(fields, zap.String(key, v))
		}
	}
	if len(columns) == 0 {
		return append(fields, zap.Any("data", data)), nil
	}

	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s record: %w", ruleName, err)
	}
	var record map[string]interface{}
	if err := json.Unmarshal(b, &record); err != nil {
		return nil, fmt.Errorf("unmarshal %s record: %w", ruleName, err)
	}
	for _, column := range columns {
		fields = append(fields, zap.Any(column, record[column]))
	}
	return fields, nil
}
