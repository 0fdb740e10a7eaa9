package extraction

import (
	"fmt"
	"regexp"
	"sort"

	"go.uber.org/zap"
)

// Pattern pairs a named text matcher with a typed extraction function.
// Patterns are immutable once registered; Priority breaks ties when several
// patterns claim overlapping text (higher runs first).
type Pattern struct {
	Name       string
	Regex      *regexp.Regexp
	Priority   int
	Repeatable bool
	Extract    func(match []string) (any, error)
}

// Fact is a typed record produced by a pattern's extractor
type Fact struct {
	Pattern string
	Span    string // The matched text
	Value   any    // One of the *Fact payload types in facts.go
}

// Registry holds the immutable pattern set. It is built once at startup and
// read-only afterwards, so it is safe for concurrent Extract calls.
type Registry struct {
	log      *zap.Logger
	patterns []Pattern
	byName   map[string]int
}

// NewRegistry creates an empty pattern registry
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:    log,
		byName: make(map[string]int),
	}
}

// Register adds a pattern. Duplicate names and incomplete patterns are
// rejected.
func (r *Registry) Register(p Pattern) error {
	if p.Name == "" {
		return fmt.Errorf("pattern name cannot be empty")
	}
	if p.Regex == nil {
		return fmt.Errorf("pattern %s has no matcher", p.Name)
	}
	if p.Extract == nil {
		return fmt.Errorf("pattern %s has no extractor", p.Name)
	}
	if _, exists := r.byName[p.Name]; exists {
		return fmt.Errorf("pattern %s already registered", p.Name)
	}

	r.patterns = append(r.patterns, p)
	// Stable sort keeps registration order among equal priorities
	sort.SliceStable(r.patterns, func(i, j int) bool {
		return r.patterns[i].Priority > r.patterns[j].Priority
	})

	r.byName = make(map[string]int, len(r.patterns))
	for i := range r.patterns {
		r.byName[r.patterns[i].Name] = i
	}
	return nil
}

// Extract scans all registered patterns in descending priority order.
// Repeatable patterns match until exhaustion; others take the first match
// only. A failing extractor is logged and its match skipped - extraction
// never aborts.
func (r *Registry) Extract(text string) map[string][]Fact {
	out := make(map[string][]Fact)

	for i := range r.patterns {
		p := &r.patterns[i]

		var matches [][]string
		if p.Repeatable {
			matches = p.Regex.FindAllStringSubmatch(text, -1)
		} else {
			if m := p.Regex.FindStringSubmatch(text); m != nil {
				matches = [][]string{m}
			}
		}

		for _, m := range matches {
			fact, ok := r.runExtractor(p, m)
			if !ok {
				continue
			}
			out[p.Name] = append(out[p.Name], fact)
		}
	}

	return out
}

// FirstMatch runs a single named pattern against the text and returns its
// first fact
func (r *Registry) FirstMatch(text, name string) (Fact, bool) {
	i, exists := r.byName[name]
	if !exists {
		return Fact{}, false
	}
	p := &r.patterns[i]

	m := p.Regex.FindStringSubmatch(text)
	if m == nil {
		return Fact{}, false
	}
	return r.runExtractor(p, m)
}

// Has reports whether the named pattern matches the text at all
func (r *Registry) Has(text, name string) bool {
	i, exists := r.byName[name]
	if !exists {
		return false
	}
	return r.patterns[i].Regex.MatchString(text)
}

// Names returns the registered pattern names in priority order
func (r *Registry) Names() []string {
	names := make([]string, len(r.patterns))
	for i := range r.patterns {
		names[i] = r.patterns[i].Name
	}
	return names
}

func (r *Registry) runExtractor(p *Pattern, match []string) (fact Fact, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn("extractor panicked, skipping match",
				zap.String("pattern", p.Name),
				zap.String("span", match[0]),
				zap.Any("panic", rec))
			ok = false
		}
	}()

	value, err := p.Extract(match)
	if err != nil {
		r.log.Warn("extractor failed, skipping match",
			zap.String("pattern", p.Name),
			zap.String("span", match[0]),
			zap.Error(err))
		return Fact{}, false
	}

	return Fact{Pattern: p.Name, Span: match[0], Value: value}, true
}
