// Package djinni crawls the djinni.co job board: search result pages are
// followed page by page and every listed vacancy is parsed into a Vacancy.
package djinni

import (
	"github.com/wenzapen/vacancies/document"
	"github.com/wenzapen/vacancies/spider"
	"github.com/wenzapen/vacancies/vocabulary"
	"go.uber.org/zap"
)

const (
	TaskName      = "djinni"
	StartURL      = "https://djinni.co/jobs/?primary_keyword=Python"
	AllowedDomain = "djinni.co"

	RuleListing = "listing"
	RuleDetail  = "detail"
)

// NewTask builds the djinni crawl. opts may override the start URL, allowed
// domains, fetcher, storage and limits.
func NewTask(vocab *vocabulary.Vocabulary, opts ...spider.Option) *spider.Task {
	base := []spider.Option{
		spider.WithName(TaskName),
		spider.WithURL(StartURL),
		spider.WithAllowedDomains(AllowedDomain),
	}
	task := spider.NewTask(append(base, opts...)...)

	task.Rule = spider.RuleTree{
		Root: func() ([]*spider.Request, error) {
			return []*spider.Request{{
				Task:     task,
				Method:   "GET",
				URL:      task.URL,
				RuleName: RuleListing,
			}}, nil
		},
		Trunk: map[string]*spider.Rule{
			RuleListing: {ParseFunc: ParseListing},
			RuleDetail: {
				ItemFields: Fields,
				ParseFunc: func(ctx *spider.Context) (spider.ParseResult, error) {
					return ParseDetail(ctx, vocab)
				},
			},
		},
	}
	return task
}

// ParseListing schedules every vacancy on the page and the next page.
func ParseListing(ctx *spider.Context) (spider.ParseResult, error) {
	listing, errs := HandleListing(ctx.Doc)
	for _, err := range errs {
		ctx.Req.Task.Logger.Debug("skip link", zap.String("page", ctx.Req.URL), zap.Error(err))
	}

	result := spider.ParseResult{}
	for _, u := range listing.Details {
		result.Requests = append(result.Requests, ctx.Req.Follow(u, RuleDetail))
	}
	if listing.HasNext() {
		result.Requests = append(result.Requests, ctx.Req.Follow(listing.Next, RuleListing))
	}
	return result, nil
}

// ParseDetail emits the page's Vacancy, or fails without emitting anything.
func ParseDetail(ctx *spider.Context, vocab *vocabulary.Vocabulary) (spider.ParseResult, error) {
	v, err := HandleDetail(ctx.Doc, vocab)
	if err != nil {
		return spider.ParseResult{}, err
	}
	return spider.ParseResult{
		Items: []interface{}{ctx.Output(v)},
	}, nil
}

// HandleDetail turns a vacancy page into its record.
func HandleDetail(doc *document.Document, vocab *vocabulary.Vocabulary) (*Vacancy, error) {
	return Assemble(doc, vocab)
}
