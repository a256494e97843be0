package crawl

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/wenzapen/vacancies/engine"
	"github.com/wenzapen/vacancies/log"
	"github.com/wenzapen/vacancies/metrics"
	"github.com/wenzapen/vacancies/spider"
	"github.com/wenzapen/vacancies/storage/logstorage"
	"go.uber.org/zap"
)

var CrawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "crawl vacancies",
	Long:  "crawl djinni.co vacancies and log one record per vacancy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context())
	},
}

func init() {
	CrawlCmd.Flags().StringVar(&configPath, "config", "config.toml", "set config file")
	CrawlCmd.Flags().StringVar(&MetricsListenAddress, "metrics", "", "set metrics and pprof listen address")
}

var configPath string
var MetricsListenAddress string

func Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, closer, err := log.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	logger.Info("log init end", zap.String("level", cfg.LogLevel))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	if MetricsListenAddress != "" {
		go RunMetricsServer(logger, reg)
	}

	f, err := NewFetcher(cfg.Fetcher, logger)
	if err != nil {
		return err
	}
	logger.Info("fetcher ready",
		zap.String("type", cfg.Fetcher.Type),
		zap.Strings("proxy", cfg.Fetcher.Proxy),
		zap.Int("timeout", cfg.Fetcher.Timeout))

	vocab, err := LoadVocabulary(cfg.Crawl.Vocabulary)
	if err != nil {
		return err
	}

	storage := logstorage.New(logstorage.WithLogger(logger.Named("record")))
	task := ParseTaskConfig(logger, f, storage, vocab, cfg.Crawl)

	e := engine.NewEngine(
		engine.WithLogger(logger),
		engine.WithWorkCount(cfg.Crawl.Workers),
		engine.WithSeeds([]*spider.Task{task}),
		engine.WithMetrics(m),
	)
	if err := e.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func RunMetricsServer(logger *zap.Logger, reg *prometheus.Registry) {
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Info("metrics server listening", zap.String("addr", MetricsListenAddress))
	if err := http.ListenAndServe(MetricsListenAddress, nil); err != nil {
		logger.Error("metrics server stopped", zap.Error(err))
	}
}
