package domain

// Kind is the kind of a discovered test entity
type Kind int

const (
	KindModule Kind = iota
	KindClass
	KindFunction
)

// String returns the kind name as the test runner reports it
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindClass:
		return "Class"
	case KindFunction:
		return "Function"
	default:
		return "Unknown"
	}
}

// EntityID indexes an entity in the tree's arena
type EntityID int

// NoParent marks a root entity (a module)
const NoParent EntityID = -1

// Entity represents a module, test class or test function found in a source file.
// Parent is an arena index, never an owning reference.
type Entity struct {
	ID     EntityID
	Name   string // file path for modules
	Kind   Kind
	Parent EntityID
	Line   int // 1-based source line, 0 for modules
}

// HasParent reports whether the entity is nested in another entity
func (e Entity) HasParent() bool {
	return e.Parent != NoParent
}
