package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wenzapen/vacancies/document"
	"github.com/wenzapen/vacancies/metrics"
	"github.com/wenzapen/vacancies/spider"
	"go.uber.org/zap"
)

type Crawler struct {
	Visited     map[string]bool
	VisitedLock sync.Mutex

	pending atomic.Int64
	cancel  context.CancelFunc
	options
}

type Scheduler interface {
	Schedule(ctx context.Context)
	Push(ctx context.Context, reqs ...*spider.Request)
	Pull(ctx context.Context) (*spider.Request, bool)
}

// Schedule is an unbounded FIFO between producers and workers.
type Schedule struct {
	requestChan chan *spider.Request
	workerChan  chan *spider.Request
	reqQueue    []*spider.Request
	depth       prometheus.Gauge
}

func NewEngine(opts ...Option) *Crawler {
	options := DefaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.WorkCount < 1 {
		options.WorkCount = 1
	}
	if options.CrawlID == "" {
		options.CrawlID = uuid.NewString()
	}
	if options.metrics == nil {
		options.metrics = metrics.New(prometheus.NewRegistry())
	}
	if options.scheduler == nil {
		options.scheduler = NewSchedule(options.metrics.QueueDepth)
	}

	e := &Crawler{}
	e.options = options
	e.Visited = make(map[string]bool, 100)

	return e
}

// NewSchedule returns an empty queue. depth, if not nil, tracks its length.
func NewSchedule(depth prometheus.Gauge) *Schedule {
	s := Schedule{}
	s.requestChan = make(chan *spider.Request)
	s.workerChan = make(chan *spider.Request)
	s.depth = depth
	return &s
}

func (s *Schedule) Push(ctx context.Context, reqs ...*spider.Request) {
	for _, req := range reqs {
		select {
		case s.requestChan <- req:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Schedule) Pull(ctx context.Context) (*spider.Request, bool) {
	select {
	case r := <-s.workerChan:
		return r, true
	case <-ctx.Done():
		return nil, false
	}
}

func (s *Schedule) Schedule(ctx context.Context) {
	for {
		var req *spider.Request
		var workerCh chan *spider.Request
		if len(s.reqQueue) > 0 {
			req = s.reqQueue[0]
			workerCh = s.workerChan
		}
		select {
		case workerCh <- req:
			s.reqQueue = s.reqQueue[1:]
		case r := <-s.requestChan:
			s.reqQueue = append(s.reqQueue, r)
		case <-ctx.Done():
			return
		}
		if s.depth != nil {
			s.depth.Set(float64(len(s.reqQueue)))
		}
	}
}

// Run crawls every seed until no request is outstanding or ctx is done. It
// returns ctx.Err() in the latter case.
func (e *Crawler) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.cancel = cancel

	go e.scheduler.Schedule(runCtx)

	var workers sync.WaitGroup
	for i := 0; i < e.WorkCount; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			e.CreateWorker(runCtx)
		}()
	}

	reqs := e.seedRequests()
	e.Logger.Info("crawl started",
		zap.String("crawl_id", e.CrawlID),
		zap.Int("seeds", len(reqs)),
		zap.Int("workers", e.WorkCount))
	if len(reqs) == 0 {
		cancel()
	} else {
		e.push(runCtx, reqs...)
	}

	<-runCtx.Done()
	workers.Wait()
	e.flush()

	e.Logger.Info("crawl finished", zap.String("crawl_id", e.CrawlID), zap.Int("visited", e.visitedCount()))
	return ctx.Err()
}

func (e *Crawler) seedRequests() []*spider.Request {
	var reqs []*spider.Request
	for _, seed := range e.Seeds {
		if seed.Fetcher == nil {
			seed.Fetcher = e.Fetcher
		}
		if seed.Storage == nil {
			seed.Storage = e.Storage
		}
		if seed.Fetcher == nil {
			e.Logger.Error("seed has no fetcher", zap.String("task", seed.Name))
			continue
		}
		if seed.Rule.Root == nil {
			e.Logger.Error("seed has no root rule", zap.String("task", seed.Name))
			continue
		}
		roots, err := seed.Rule.Root()
		if err != nil {
			e.Logger.Error("get root requests failed", zap.String("task", seed.Name), zap.Error(err))
			continue
		}
		for _, r := range roots {
			if r.Task == nil {
				r.Task = seed
			}
		}
		reqs = append(reqs, roots...)
	}
	return reqs
}

// push counts reqs as outstanding before handing them to the scheduler.
func (e *Crawler) push(ctx context.Context, reqs ...*spider.Request) {
	if len(reqs) == 0 {
		return
	}
	e.pending.Add(int64(len(reqs)))
	for _, r := range reqs {
		e.metrics.RequestsScheduled.WithLabelValues(r.Task.Name, r.RuleName).Inc()
	}
	e.scheduler.Push(ctx, reqs...)
}

func (e *Crawler) done() {
	if e.pending.Add(-1) == 0 {
		e.cancel()
	}
}

func (e *Crawler) CreateWorker(ctx context.Context) {
	for {
		req, ok := e.scheduler.Pull(ctx)
		if !ok {
			return
		}
		e.metrics.WorkersBusy.Inc()
		e.handle(ctx, req)
		e.metrics.WorkersBusy.Dec()
		e.done()
	}
}

func (e *Crawler) handle(ctx context.Context, req *spider.Request) {
	logger := e.Logger.With(zap.String("url", req.URL), zap.String("rule", req.RuleName))

	if err := req.Check(); err != nil {
		logger.Debug("check failed", zap.Error(err))
		e.fail(req, metrics.ReasonCheck)
		return
	}
	if !e.Visit(req) {
		logger.Debug("request has visited")
		e.metrics.RequestsDuplicate.WithLabelValues(req.Task.Name).Inc()
		return
	}

	start := time.Now()
	body, err := req.Fetch(ctx)
	e.metrics.FetchDuration.WithLabelValues(req.Task.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error("can't fetch", zap.Error(err))
		e.fail(req, metrics.ReasonFetch)
		return
	}
	e.metrics.RequestsFetched.WithLabelValues(req.Task.Name, req.RuleName).Inc()

	doc, err := document.New(body, req.URL)
	if err != nil {
		logger.Error("can't parse document", zap.Error(err))
		e.fail(req, metrics.ReasonParse)
		return
	}
	rule := req.Task.Rule.Trunk[req.RuleName]
	result, err := rule.ParseFunc(&spider.Context{Doc: doc, Req: req})
	if err != nil {
		logger.Warn("parse failed", zap.Error(err))
		e.fail(req, metrics.ReasonParse)
		return
	}

	e.push(ctx, result.Requests...)
	e.HandleResult(req, result.Items)
}

// HandleResult stamps the crawl id on each DataCell and saves them.
func (e *Crawler) HandleResult(req *spider.Request, items []interface{}) {
	cells := make([]*spider.DataCell, 0, len(items))
	for _, item := range items {
		cell, ok := item.(*spider.DataCell)
		if !ok {
			e.Logger.Warn("unexpected item", zap.String("url", req.URL), zap.Any("item", item))
			continue
		}
		cell.Data["CrawlID"] = e.CrawlID
		cells = append(cells, cell)
	}
	if len(cells) == 0 {
		return
	}
	if req.Task.Storage == nil {
		for _, cell := range cells {
			e.Logger.Info("get result", zap.Any("data", cell.Data))
		}
		return
	}
	if err := req.Task.Storage.Save(cells...); err != nil {
		e.Logger.Error("save failed", zap.String("url", req.URL), zap.Error(err))
		e.fail(req, metrics.ReasonStorage)
		return
	}
	e.metrics.ItemsSaved.WithLabelValues(req.Task.Name).Add(float64(len(cells)))
}

type flusher interface {
	Flush() error
}

// flush drains buffering storages once the workers have stopped.
func (e *Crawler) flush() {
	seen := make(map[spider.Storage]bool)
	for _, seed := range e.Seeds {
		if seed.Storage == nil || seen[seed.Storage] {
			continue
		}
		seen[seed.Storage] = true
		if f, ok := seed.Storage.(flusher); ok {
			if err := f.Flush(); err != nil {
				e.Logger.Error("flush storage failed", zap.String("task", seed.Name), zap.Error(err))
			}
		}
	}
}

func (e *Crawler) fail(req *spider.Request, reason string) {
	e.metrics.RequestsFailed.WithLabelValues(req.Task.Name, req.RuleName, reason).Inc()
}

func (e *Crawler) HasVisited(r *spider.Request) bool {
	e.VisitedLock.Lock()
	defer e.VisitedLock.Unlock()
	return e.Visited[r.Unique()]
}

// Visit marks r visited and reports whether it was new.
func (e *Crawler) Visit(r *spider.Request) bool {
	e.VisitedLock.Lock()
	defer e.VisitedLock.Unlock()
	unique := r.Unique()
	if e.Visited[unique] {
		return false
	}
	e.Visited[unique] = true
	return true
}

func (e *Crawler) visitedCount() int {
	e.VisitedLock.Lock()
	defer e.VisitedLock.Unlock()
	return len(e.Visited)
}
