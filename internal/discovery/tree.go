package discovery

import (
	"fmt"
	"strings"

	"pytexp/internal/domain"
)

// PathSeparator joins entity names in a full path, as the test runner expects
const PathSeparator = "::"

// maxDepth is the longest parent chain: Module -> Class -> Function
const maxDepth = 2

// Tree owns every discovered entity in an arena indexed by EntityID.
// It is built once by the Collector and is read-only afterwards.
type Tree struct {
	entities []domain.Entity
	tests    []domain.EntityID // listed entities in discovery order
	files    int
}

// NewTree creates an empty Tree
func NewTree() *Tree {
	return &Tree{}
}

// AddFile appends a module for path and its declarations.
// Files without declarations add nothing.
func (t *Tree) AddFile(path string, decls []Declaration) error {
	if len(decls) == 0 {
		return nil
	}
	if err := validate(decls); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	module := domain.EntityID(len(t.entities))
	t.entities = append(t.entities, domain.Entity{
		ID:     module,
		Name:   path,
		Kind:   domain.KindModule,
		Parent: domain.NoParent,
	})
	base := module + 1
	for i, d := range decls {
		parent := module
		if d.Parent >= 0 {
			parent = base + domain.EntityID(d.Parent)
		}
		id := base + domain.EntityID(i)
		t.entities = append(t.entities, domain.Entity{
			ID:     id,
			Name:   d.Name,
			Kind:   d.Kind,
			Parent: parent,
			Line:   d.Line,
		})
		t.tests = append(t.tests, id)
	}
	t.files++
	return nil
}

// validate enforces the parent rules: classes sit in modules, functions in classes or modules,
// and a parent always precedes its children.
func validate(decls []Declaration) error {
	for i, d := range decls {
		switch d.Kind {
		case domain.KindClass:
			if d.Parent != -1 {
				return fmt.Errorf("class %s must belong to a module", d.Name)
			}
		case domain.KindFunction:
			if d.Parent == -1 {
				continue
			}
			if d.Parent >= i {
				return fmt.Errorf("function %s refers to a later parent", d.Name)
			}
			if decls[d.Parent].Kind != domain.KindClass {
				return fmt.Errorf("function %s must belong to a class or module", d.Name)
			}
		default:
			return fmt.Errorf("unexpected %s declaration %s", d.Kind, d.Name)
		}
	}
	return nil
}

// Len returns the number of listed entities
func (t *Tree) Len() int {
	return len(t.tests)
}

// Files returns the number of files that contributed entities
func (t *Tree) Files() int {
	return t.files
}

// At returns the i-th listed entity in discovery order
func (t *Tree) At(i int) domain.Entity {
	return t.entities[t.tests[i]]
}

// Entities returns the listed entities (classes and functions) in discovery order
func (t *Tree) Entities() []domain.Entity {
	out := make([]domain.Entity, len(t.tests))
	for i, id := range t.tests {
		out[i] = t.entities[id]
	}
	return out
}

// Get returns the entity with the given id, modules included
func (t *Tree) Get(id domain.EntityID) (domain.Entity, bool) {
	if id < 0 || int(id) >= len(t.entities) {
		return domain.Entity{}, false
	}
	return t.entities[id], true
}

// FullPath joins the names on the parent chain, file path first:
// tests/test_a.py::TestGroup::test_case
func (t *Tree) FullPath(e domain.Entity) string {
	var chain [maxDepth + 1]string
	n := 0
	chain[n] = e.Name
	n++
	for cur := e; cur.HasParent() && n <= maxDepth; n++ {
		cur = t.entities[cur.Parent]
		chain[n] = cur.Name
	}

	var b strings.Builder
	for i := n - 1; i >= 0; i-- {
		b.WriteString(chain[i])
		if i > 0 {
			b.WriteString(PathSeparator)
		}
	}
	return b.String()
}

// File returns the path of the file that declares e
func (t *Tree) File(e domain.Entity) string {
	for cur := e; ; cur = t.entities[cur.Parent] {
		if !cur.HasParent() {
			return cur.Name
		}
	}
}

// Matches reports whether e's full path satisfies the filter
func (t *Tree) Matches(e domain.Entity, f Filter) bool {
	return f.Match(t.FullPath(e))
}
