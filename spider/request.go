package spider

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/wenzapen/vacancies/document"
)

var (
	ErrMaxDepth      = errors.New("max depth limit is reached")
	ErrDomainBlocked = errors.New("domain is not allowed")
	ErrUnknownRule   = errors.New("unknown rule")
)

// Context is what a rule's ParseFunc receives: the parsed page and the
// request that produced it.
type Context struct {
	Doc *document.Document
	Req *Request
}

func (c *Context) GetRule(ruleName string) *Rule {
	return c.Req.Task.Rule.Trunk[ruleName]
}

// Output wraps a parsed item into a DataCell tagged with its origin.
func (c *Context) Output(data interface{}) *DataCell {
	dataCell := &DataCell{
		Task: c.Req.Task,
	}
	dataCell.Data = make(map[string]interface{})
	dataCell.Data["Task"] = c.Req.Task.Name
	dataCell.Data["Rule"] = c.Req.RuleName
	dataCell.Data["URL"] = c.Req.URL
	dataCell.Data["Time"] = time.Now().UTC().Format(time.RFC3339)
	dataCell.Data["Data"] = data

	return dataCell
}

// Request is one page to fetch together with the name of the rule that
// continues the crawl once it arrives.
type Request struct {
	Task     *Task
	Method   string
	URL      string
	Depth    int64
	RuleName string
}

// Follow builds a request one level deeper for the same task.
func (r *Request) Follow(u, ruleName string) *Request {
	return &Request{
		Task:     r.Task,
		Method:   "GET",
		URL:      u,
		Depth:    r.Depth + 1,
		RuleName: ruleName,
	}
}

// Fetch waits for the task's rate limiter and a random pause of up to
// WaitTime seconds, then retrieves the page.
func (r *Request) Fetch(ctx context.Context) ([]byte, error) {
	if r.Task.Limit != nil {
		if err := r.Task.Limit.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if r.Task.WaitTime > 0 {
		sleeptime := rand.Int63n(r.Task.WaitTime * 1000)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(sleeptime) * time.Millisecond):
		}
	}
	return r.Task.Fetcher.Get(ctx, r)
}

type ParseResult struct {
	Requests []*Request
	Items    []interface{}
}

func (r *Request) Check() error {
	if r.Task.MaxDepth > 0 && r.Depth > r.Task.MaxDepth {
		return ErrMaxDepth
	}
	if !r.Task.Allowed(r.URL) {
		return fmt.Errorf("%s: %w", r.URL, ErrDomainBlocked)
	}
	if _, ok := r.Task.Rule.Trunk[r.RuleName]; !ok {
		return fmt.Errorf("%q: %w", r.RuleName, ErrUnknownRule)
	}
	return nil
}

func (r *Request) Unique() string {
	block := md5.Sum([]byte(r.URL + r.Method))
	return hex.EncodeToString(block[:])
}

// Allowed reports whether rawURL's host is one of the task's allowed domains
// or a subdomain of one. An empty list allows everything.
func (t *Task) Allowed(rawURL string) bool {
	if len(t.AllowedDomains) == 0 {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range t.AllowedDomains {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
