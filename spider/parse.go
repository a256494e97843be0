package spider

// RuleTree describes a crawl: Root produces the seed requests, Trunk maps a
// request's RuleName to the rule that parses its page.
type RuleTree struct {
	Root  func() ([]*Request, error)
	Trunk map[string]*Rule
}

type Rule struct {
	ItemFields []string
	ParseFunc  func(*Context) (ParseResult, error)
}
