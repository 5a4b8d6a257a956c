package discovery

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"pytexp/internal/domain"
)

// TokenSeparator splits filter text into tokens
const TokenSeparator = " "

// Filter is a tokenized filter text. Every token must be a substring of a path for it to match.
type Filter struct {
	raw    string
	tokens []string
}

// ParseFilter splits raw on single spaces. Consecutive spaces yield empty tokens, which match everything.
func ParseFilter(raw string) Filter {
	return Filter{raw: raw, tokens: strings.Split(raw, TokenSeparator)}
}

// Raw returns the text the filter was parsed from
func (f Filter) Raw() string {
	return f.raw
}

// Tokens returns the filter tokens in input order
func (f Filter) Tokens() []string {
	return f.tokens
}

// Match reports whether every token is a case-sensitive substring of path
func (f Filter) Match(path string) bool {
	for _, token := range f.tokens {
		if !strings.Contains(path, token) {
			return false
		}
	}
	return true
}

// View is the order-preserving projection of a tree's entities through a filter.
// Entities are not copied; At walks the tree.
type View struct {
	tree   *Tree
	filter Filter
	count  int
}

func newView(tree *Tree, filter Filter, count int) View {
	return View{tree: tree, filter: filter, count: count}
}

// NewView evaluates filter over tree
func NewView(tree *Tree, filter Filter) View {
	return newView(tree, filter, countMatches(tree, filter))
}

func countMatches(tree *Tree, filter Filter) int {
	count := 0
	for i := 0; i < tree.Len(); i++ {
		if tree.Matches(tree.At(i), filter) {
			count++
		}
	}
	return count
}

// Count returns the number of entities passing the filter
func (v View) Count() int {
	return v.count
}

// Total returns the number of entities in the underlying tree
func (v View) Total() int {
	if v.tree == nil {
		return 0
	}
	return v.tree.Len()
}

// Filter returns the filter this view was built from
func (v View) Filter() Filter {
	return v.filter
}

// At returns the i-th entity of the view
func (v View) At(i int) (domain.Entity, bool) {
	if i < 0 || i >= v.count {
		return domain.Entity{}, false
	}
	var found domain.Entity
	ok := false
	v.Each(func(index int, e domain.Entity) bool {
		if index == i {
			found, ok = e, true
			return false
		}
		return true
	})
	return found, ok
}

// Window returns up to n entities starting at view index start
func (v View) Window(start, n int) []domain.Entity {
	if n <= 0 || start >= v.count {
		return nil
	}
	if start < 0 {
		start = 0
	}
	out := make([]domain.Entity, 0, min(n, v.count-start))
	v.Each(func(index int, e domain.Entity) bool {
		if index >= start {
			out = append(out, e)
		}
		return len(out) < n
	})
	return out
}

// Each calls fn with every entity of the view and its view index until fn returns false
func (v View) Each(fn func(index int, e domain.Entity) bool) {
	if v.tree == nil {
		return
	}
	index := 0
	for i := 0; i < v.tree.Len(); i++ {
		e := v.tree.At(i)
		if !v.tree.Matches(e, v.filter) {
			continue
		}
		if !fn(index, e) {
			return
		}
		index++
	}
}

// FullPath returns the full path of an entity of this view
func (v View) FullPath(e domain.Entity) string {
	return v.tree.FullPath(e)
}

// File returns the file declaring an entity of this view
func (v View) File(e domain.Entity) string {
	return v.tree.File(e)
}

// DefaultCountCacheSize bounds the number of filter texts whose counts are remembered
const DefaultCountCacheSize = 128

// Engine builds views over one tree and remembers the match count per filter text,
// so deleting characters returns to counts already computed.
type Engine struct {
	tree   *Tree
	counts *lru.Cache[string, int]
}

// NewEngine creates an Engine over tree
func NewEngine(tree *Tree, cacheSize int) (*Engine, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCountCacheSize
	}
	counts, err := lru.New[string, int](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{tree: tree, counts: counts}, nil
}

// Tree returns the tree the engine filters
func (e *Engine) Tree() *Tree {
	return e.tree
}

// View returns the filtered view for raw filter text
func (e *Engine) View(raw string) View {
	filter := ParseFilter(raw)
	if count, ok := e.counts.Get(raw); ok {
		return newView(e.tree, filter, count)
	}
	count := countMatches(e.tree, filter)
	e.counts.Add(raw, count)
	return newView(e.tree, filter, count)
}
