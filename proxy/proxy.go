package proxy

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
)

var ErrNoProxy = errors.New("proxy url list is empty")

type ProxyFunc func(*http.Request) (*url.URL, error)

type roundRobinSwitcher struct {
	proxyURLs []*url.URL
	index     uint32
}

func (r *roundRobinSwitcher) GetProxy(pr *http.Request) (*url.URL, error) {
	index := atomic.AddUint32(&r.index, 1) - 1
	u := r.proxyURLs[index%uint32(len(r.proxyURLs))]
	return u, nil
}

// RoundRobinSwitcher hands out ProxyURLs in turn. Every URL needs a scheme and
// a host.
func RoundRobinSwitcher(ProxyURLs ...string) (ProxyFunc, error) {
	if len(ProxyURLs) < 1 {
		return nil, ErrNoProxy
	}
	urls := make([]*url.URL, 0, len(ProxyURLs))
	for _, u := range ProxyURLs {
		parsedU, err := url.Parse(u)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", u, err)
		}
		if parsedU.Scheme == "" || parsedU.Host == "" {
			return nil, fmt.Errorf("proxy %q: scheme and host are required", u)
		}
		urls = append(urls, parsedU)
	}
	return (&roundRobinSwitcher{urls, 0}).GetProxy, nil
}
