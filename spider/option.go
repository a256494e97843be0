package spider

import (
	"github.com/wenzapen/vacancies/limiter"
	"go.uber.org/zap"
)

type Options struct {
	Name           string   `json:"name"`
	URL            string   `json:"url"`
	Cookie         string   `json:"cookie"`
	WaitTime       int64    `json:"wait_time"`
	MaxDepth       int64    `json:"max_depth"`
	AllowedDomains []string `json:"allowed_domains"`
	Fetcher        Fetcher
	Storage        Storage
	Limit          limiter.RateLimiter
	Logger         *zap.Logger
}

var defaultOptions = Options{
	Logger:   zap.NewNop(),
	WaitTime: 0,
	MaxDepth: 0,
}

type Option func(opts *Options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func WithName(name string) Option {
	return func(opts *Options) {
		opts.Name = name
	}
}

func WithURL(url string) Option {
	return func(opts *Options) {
		opts.URL = url
	}
}

func WithCookie(cookie string) Option {
	return func(opts *Options) {
		opts.Cookie = cookie
	}
}

// WithWaitTime sets the upper bound, in seconds, of the random pause before
// each fetch.
func WithWaitTime(waittime int64) Option {
	return func(opts *Options) {
		opts.WaitTime = waittime
	}
}

// WithMaxDepth bounds how many links away from a root request the crawl may
// go. Zero means unbounded.
func WithMaxDepth(maxdepth int64) Option {
	return func(opts *Options) {
		opts.MaxDepth = maxdepth
	}
}

func WithAllowedDomains(domains ...string) Option {
	return func(opts *Options) {
		opts.AllowedDomains = domains
	}
}

func WithFetcher(fetcher Fetcher) Option {
	return func(opts *Options) {
		opts.Fetcher = fetcher
	}
}

func WithStorage(storage Storage) Option {
	return func(opts *Options) {
		opts.Storage = storage
	}
}

func WithLimit(limit limiter.RateLimiter) Option {
	return func(opts *Options) {
		opts.Limit = limit
	}
}
