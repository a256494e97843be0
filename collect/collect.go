package collect

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/wenzapen/vacancies/proxy"
	"github.com/wenzapen/vacancies/spider"
	"go.uber.org/zap"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("get %s: unexpected status %d", e.URL, e.StatusCode)
}

// BrowserFetch fetches pages with net/http, posing as a desktop browser, and
// converts the body to UTF-8.
type BrowserFetch struct {
	Timeout   time.Duration
	Proxy     proxy.ProxyFunc
	UserAgent string
	Logger    *zap.Logger

	once   sync.Once
	client *http.Client
}

func (b *BrowserFetch) httpClient() *http.Client {
	b.once.Do(func() {
		b.client = &http.Client{
			Timeout: b.Timeout,
		}
		if b.Proxy != nil {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.Proxy = b.Proxy
			b.client.Transport = transport
		}
	})
	return b.client
}

func (b *BrowserFetch) Get(ctx context.Context, request *spider.Request) ([]byte, error) {
	method := request.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, request.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("get url failed: %w", err)
	}
	if request.Task != nil && len(request.Task.Cookie) > 0 {
		req.Header.Set("Cookie", request.Task.Cookie)
	}
	ua := b.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := b.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: request.URL, StatusCode: resp.StatusCode}
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := DeterminEncoding(bodyReader, resp.Header.Get("Content-Type"), b.logger())
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())

	return io.ReadAll(utf8Reader)
}

func (b *BrowserFetch) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// DeterminEncoding sniffs the first KiB of r together with the Content-Type
// header. It falls back to UTF-8.
func DeterminEncoding(r *bufio.Reader, contentType string, logger *zap.Logger) encoding.Encoding {
	bytes, err := r.Peek(1024)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		logger.Warn("peek body failed", zap.Error(err))
		return unicode.UTF8
	}
	e, name, _ := charset.DetermineEncoding(bytes, contentType)
	logger.Debug("encoding determined", zap.String("charset", name))
	return e
}
