package discovery

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"pytexp/internal/domain"
)

// Declaration is a test entity found in one file, before it is placed in the tree.
// Parent indexes the same declaration slice; -1 means the enclosing module.
type Declaration struct {
	Name   string
	Kind   domain.Kind
	Line   int
	Parent int
}

// ParseError is a file-scoped failure to parse a source file
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Prefixes holds the name prefixes that mark tests
type Prefixes struct {
	Function string // e.g. "test_"
	Class    string // e.g. "Test"
}

// Parser parses python test files to extract test entities
type Parser struct {
	prefixes Prefixes
	parser   *sitter.Parser
}

// NewParser creates a new Parser. A Parser is not safe for concurrent use.
func NewParser(prefixes Prefixes) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{prefixes: prefixes, parser: p}
}

// Close releases the underlying tree-sitter parser
func (p *Parser) Close() {
	p.parser.Close()
}

// Parse extracts test declarations from the top-level statements of one file.
// Classes are listed before their methods.
func (p *Parser) Parse(ctx context.Context, path string, src []byte) ([]Declaration, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, &ParseError{Path: path, Line: firstErrorLine(root), Err: fmt.Errorf("invalid syntax")}
	}

	var decls []Declaration
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := definition(root.NamedChild(i))
		if node == nil {
			continue
		}
		switch node.Type() {
		case "function_definition":
			name := nodeName(node, src)
			if strings.HasPrefix(name, p.prefixes.Function) {
				decls = append(decls, Declaration{
					Name:   name,
					Kind:   domain.KindFunction,
					Line:   line(node),
					Parent: -1,
				})
			}
		case "class_definition":
			decls = p.appendClass(decls, node, src)
		}
	}
	return decls, nil
}

// appendClass adds a test class and its test methods. A class without test methods is dropped whole.
func (p *Parser) appendClass(decls []Declaration, class *sitter.Node, src []byte) []Declaration {
	className := nodeName(class, src)
	if !strings.HasPrefix(className, p.prefixes.Class) {
		return decls
	}
	body := class.ChildByFieldName("body")
	if body == nil {
		return decls
	}

	classIndex := len(decls)
	var methods []Declaration
	for i := 0; i < int(body.NamedChildCount()); i++ {
		node := definition(body.NamedChild(i))
		if node == nil || node.Type() != "function_definition" {
			continue
		}
		name := nodeName(node, src)
		if strings.HasPrefix(name, p.prefixes.Function) {
			methods = append(methods, Declaration{
				Name:   name,
				Kind:   domain.KindFunction,
				Line:   line(node),
				Parent: classIndex,
			})
		}
	}
	if len(methods) == 0 {
		return decls
	}

	decls = append(decls, Declaration{
		Name:   className,
		Kind:   domain.KindClass,
		Line:   line(class),
		Parent: -1,
	})
	return append(decls, methods...)
}

// definition unwraps decorated definitions; async functions are plain function_definition nodes
func definition(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == "decorated_definition" {
		return node.ChildByFieldName("definition")
	}
	return node
}

func nodeName(node *sitter.Node, src []byte) string {
	name := node.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return name.Content(src)
}

func line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// firstErrorLine returns the 1-based line of the first error or missing node, or 0
func firstErrorLine(node *sitter.Node) int {
	if node.IsError() || node.IsMissing() {
		return line(node)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if l := firstErrorLine(child); l > 0 {
			return l
		}
	}
	return 0
}
