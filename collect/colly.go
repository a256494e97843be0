package collect

import (
	"context"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/wenzapen/vacancies/proxy"
	"github.com/wenzapen/vacancies/spider"
	"go.uber.org/zap"
)

// CollyFetch fetches pages through a colly collector. Deduplication and
// scheduling stay with the engine, so the collector revisits freely and
// ignores robots.txt.
type CollyFetch struct {
	collector *colly.Collector
	logger    *zap.Logger
}

func NewCollyFetch(timeout time.Duration, userAgent string, p proxy.ProxyFunc, logger *zap.Logger) *CollyFetch {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.DetectCharset(),
	)
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}
	if p != nil {
		c.SetProxyFunc(colly.ProxyFunc(p))
	}
	return &CollyFetch{collector: c, logger: logger}
}

func (f *CollyFetch) Get(ctx context.Context, request *spider.Request) ([]byte, error) {
	var (
		body   []byte
		status int
	)
	c := f.collector.Clone()
	c.Context = ctx
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		status = r.StatusCode
	})
	c.OnError(func(r *colly.Response, err error) {
		f.logger.Debug("colly request failed",
			zap.String("url", request.URL),
			zap.Int("status", r.StatusCode),
			zap.Error(err))
		status = r.StatusCode
	})

	hdr := http.Header{}
	if request.Task != nil && len(request.Task.Cookie) > 0 {
		hdr.Set("Cookie", request.Task.Cookie)
	}
	method := request.Method
	if method == "" {
		method = http.MethodGet
	}
	if err := c.Request(method, request.URL, nil, nil, hdr); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if status != 0 && status != http.StatusOK {
			return nil, &StatusError{URL: request.URL, StatusCode: status}
		}
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{URL: request.URL, StatusCode: status}
	}
	return body, nil
}
