package crawl

import (
	"fmt"
	"time"

	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"github.com/wenzapen/vacancies/collect"
	"github.com/wenzapen/vacancies/limiter"
	"github.com/wenzapen/vacancies/parse/djinni"
	"github.com/wenzapen/vacancies/proxy"
	"github.com/wenzapen/vacancies/spider"
	"github.com/wenzapen/vacancies/vocabulary"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Config struct {
	LogLevel string            `json:"logLevel"`
	LogFile  string            `json:"logFile"`
	Fetcher  FetcherConfig     `json:"fetcher"`
	Crawl    spider.TaskConfig `json:"crawl"`
}

type FetcherConfig struct {
	Type      string   `json:"type"`
	Timeout   int      `json:"timeout"` //millisecond
	Proxy     []string `json:"proxy"`
	UserAgent string   `json:"userAgent"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "INFO",
		Fetcher: FetcherConfig{
			Type:    "browser",
			Timeout: 5000,
		},
		Crawl: spider.TaskConfig{
			Name:    djinni.TaskName,
			Workers: 5,
		},
	}
}

// LoadConfig reads a TOML file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	enc := toml.NewEncoder()
	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return c, fmt.Errorf("new config: %w", err)
	}
	defer cfg.Close()

	if err := cfg.Load(file.NewSource(file.WithPath(path), source.WithEncoder(enc))); err != nil {
		return c, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Scan(&c); err != nil {
		return c, fmt.Errorf("scan config %s: %w", path, err)
	}
	return c, nil
}

// NewFetcher builds the fetcher named by cfg.Type: "browser" or "colly".
func NewFetcher(cfg FetcherConfig, logger *zap.Logger) (spider.Fetcher, error) {
	var (
		p   proxy.ProxyFunc
		err error
	)
	if len(cfg.Proxy) > 0 {
		if p, err = proxy.RoundRobinSwitcher(cfg.Proxy...); err != nil {
			return nil, err
		}
	}
	timeout := time.Duration(cfg.Timeout) * time.Millisecond

	switch cfg.Type {
	case "", "browser":
		return &collect.BrowserFetch{
			Timeout:   timeout,
			Proxy:     p,
			UserAgent: cfg.UserAgent,
			Logger:    logger,
		}, nil
	case "colly":
		return collect.NewCollyFetch(timeout, cfg.UserAgent, p, logger), nil
	default:
		return nil, fmt.Errorf("unknown fetcher type %q", cfg.Type)
	}
}

// NewLimiter combines the configured limits. It returns nil when there are
// none.
func NewLimiter(cfgs []spider.LimitConfig) limiter.RateLimiter {
	if len(cfgs) == 0 {
		return nil
	}
	limits := make([]limiter.RateLimiter, 0, len(cfgs))
	for _, lcfg := range cfgs {
		l := rate.NewLimiter(limiter.Per(lcfg.EventCount, time.Duration(lcfg.EventDuration)*time.Second), lcfg.Bucket)
		limits = append(limits, l)
	}
	return limiter.Multi(limits...)
}

// LoadVocabulary reads the vocabulary file, or returns the built-in one when
// path is empty.
func LoadVocabulary(path string) (*vocabulary.Vocabulary, error) {
	if path == "" {
		return vocabulary.Default(), nil
	}
	return vocabulary.Load(path)
}

// ParseTaskConfig builds the djinni task described by cfg.
func ParseTaskConfig(logger *zap.Logger, f spider.Fetcher, s spider.Storage, vocab *vocabulary.Vocabulary, cfg spider.TaskConfig) *spider.Task {
	opts := []spider.Option{
		spider.WithCookie(cfg.Cookie),
		spider.WithLogger(logger),
		spider.WithFetcher(f),
		spider.WithStorage(s),
	}
	if cfg.Name != "" {
		opts = append(opts, spider.WithName(cfg.Name))
	}
	if cfg.StartURL != "" {
		opts = append(opts, spider.WithURL(cfg.StartURL))
	}
	if len(cfg.AllowedDomains) > 0 {
		opts = append(opts, spider.WithAllowedDomains(cfg.AllowedDomains...))
	}
	if cfg.WaitTime > 0 {
		opts = append(opts, spider.WithWaitTime(cfg.WaitTime))
	}
	if cfg.MaxDepth > 0 {
		opts = append(opts, spider.WithMaxDepth(cfg.MaxDepth))
	}
	if l := NewLimiter(cfg.Limits); l != nil {
		opts = append(opts, spider.WithLimit(l))
	}
	return djinni.NewTask(vocab, opts...)
}
