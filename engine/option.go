package engine

import (
	"github.com/wenzapen/vacancies/metrics"
	"github.com/wenzapen/vacancies/spider"
	"go.uber.org/zap"
)

type Option func(opts *options)

type options struct {
	WorkCount int
	Fetcher   spider.Fetcher
	Storage   spider.Storage
	Logger    *zap.Logger
	Seeds     []*spider.Task
	CrawlID   string
	metrics   *metrics.Metrics
	scheduler Scheduler
}

var DefaultOptions = options{
	WorkCount: 1,
	Logger:    zap.NewNop(),
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}

// WithStorage sets the storage of seeds that have none of their own.
func WithStorage(s spider.Storage) Option {
	return func(opts *options) {
		opts.Storage = s
	}
}

func WithWorkCount(c int) Option {
	return func(opts *options) {
		opts.WorkCount = c
	}
}

// WithFetcher sets the fetcher of seeds that have none of their own.
func WithFetcher(fetcher spider.Fetcher) Option {
	return func(opts *options) {
		opts.Fetcher = fetcher
	}
}

func WithSeeds(seeds []*spider.Task) Option {
	return func(opts *options) {
		opts.Seeds = seeds
	}
}

func WithScheduler(scheduler Scheduler) Option {
	return func(opt *options) {
		opt.scheduler = scheduler
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(opts *options) {
		opts.metrics = m
	}
}

// WithCrawlID overrides the generated id stamped on every saved DataCell.
func WithCrawlID(id string) Option {
	return func(opts *options) {
		opts.CrawlID = id
	}
}
