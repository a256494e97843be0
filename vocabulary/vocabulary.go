// Package vocabulary holds the static reference data used by extractors:
// locale month names and the list of recognized technologies.
package vocabulary

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cloudflare/ahocorasick"
)

//go:embed default.toml
var defaultTOML string

var (
	ErrMonthCount = errors.New("vocabulary: exactly 12 months required")
	ErrEmptyName  = errors.New("vocabulary: empty name")
	ErrDuplicate  = errors.New("vocabulary: duplicate name")
)

// Vocabulary is immutable once built and safe for concurrent use.
type Vocabulary struct {
	months       []string
	monthIndex   map[string]time.Month
	technologies []string
	matcher      *ahocorasick.Matcher
}

type file struct {
	Months       []string `toml:"months"`
	Technologies []string `toml:"technologies"`
}

func New(months, technologies []string) (*Vocabulary, error) {
	if len(months) != 12 {
		return nil, fmt.Errorf("%w: got %d", ErrMonthCount, len(months))
	}
	v := &Vocabulary{
		months:       append([]string(nil), months...),
		monthIndex:   make(map[string]time.Month, len(months)),
		technologies: append([]string(nil), technologies...),
	}
	for i, m := range v.months {
		if m == "" {
			return nil, fmt.Errorf("%w: month %d", ErrEmptyName, i+1)
		}
		if _, ok := v.monthIndex[m]; ok {
			return nil, fmt.Errorf("%w: month %q", ErrDuplicate, m)
		}
		v.monthIndex[m] = time.Month(i + 1)
	}

	lowered := make([]string, 0, len(v.technologies))
	seen := make(map[string]struct{}, len(v.technologies))
	for _, t := range v.technologies {
		l := strings.ToLower(t)
		if strings.TrimSpace(l) == "" {
			return nil, fmt.Errorf("%w: technology", ErrEmptyName)
		}
		if _, ok := seen[l]; ok {
			return nil, fmt.Errorf("%w: technology %q", ErrDuplicate, t)
		}
		seen[l] = struct{}{}
		lowered = append(lowered, l)
	}
	if len(lowered) > 0 {
		v.matcher = ahocorasick.NewStringMatcher(lowered)
	}
	return v, nil
}

// Decode parses a vocabulary from TOML text with top-level
// months and technologies arrays.
func Decode(data string) (*Vocabulary, error) {
	var f file
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	return New(f.Months, f.Technologies)
}

func Load(path string) (*Vocabulary, error) {
	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("load vocabulary %s: %w", path, err)
	}
	return New(f.Months, f.Technologies)
}

var defaultVocabulary = sync.OnceValue(func() *Vocabulary {
	v, err := Decode(defaultTOML)
	if err != nil {
		panic(err)
	}
	return v
})

// Default returns the built-in Ukrainian vocabulary.
func Default() *Vocabulary {
	return defaultVocabulary()
}

func (v *Vocabulary) Months() []string {
	return append([]string(nil), v.months...)
}

func (v *Vocabulary) Technologies() []string {
	return append([]string(nil), v.technologies...)
}

// Month resolves a month word to its 1-based position in the month list.
func (v *Vocabulary) Month(name string) (time.Month, bool) {
	m, ok := v.monthIndex[name]
	return m, ok
}

// MatchTechnologies returns every technology contained in text, compared
// case-insensitively, in vocabulary order.
func (v *Vocabulary) MatchTechnologies(text string) []string {
	found := []string{}
	if v.matcher == nil {
		return found
	}
	hits := v.matcher.MatchThreadSafe([]byte(strings.ToLower(text)))
	sort.Ints(hits)
	prev := -1
	for _, i := range hits {
		if i == prev || i >= len(v.technologies) {
			continue
		}
		prev = i
		found = append(found, v.technologies[i])
	}
	return found
}
