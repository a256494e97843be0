package logstorage

import (
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	BatchCount int
	Message    string
}

var defaultOptions = options{
	logger:     zap.NewNop(),
	BatchCount: 1,
	Message:    "vacancy",
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithBatchCount(batchCount int) Option {
	return func(opts *options) {
		opts.BatchCount = batchCount
	}
}

// WithMessage sets the log message of every record entry.
func WithMessage(msg string) Option {
	return func(opts *options) {
		opts.Message = msg
	}
}
