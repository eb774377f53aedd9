package query

import (
	"strings"
	"unicode"
)

// Node is a vertex of parsed query tree
//
// Trees are built once by Parse and never modified afterwards.
type Node interface {
	// String renders node back into query syntax
	String() string
	node()
}

// Op is comparison operator
type Op int

// Comparison operators
const (
	Equals Op = iota
	NotEquals
)

func (op Op) String() string {
	if op == NotEquals {
		return "!="
	}
	return "="
}

// Presence is bare attribute: matches when attribute has any value
type Presence struct {
	Attribute string
}

// Compare is Attribute = Value or Attribute != Value
type Compare struct {
	Attribute string
	Op        Op
	Value     string
	// Quoted is set when value was written as quoted string
	Quoted bool
}

// Not is not Child
type Not struct {
	Child Node
}

// And is Children[0] and Children[1] and ...
type And struct {
	Children []Node
}

// Or is Children[0] or Children[1] or ...
type Or struct {
	Children []Node
}

func (*Presence) node() {}
func (*Compare) node()  {}
func (*Not) node()      {}
func (*And) node()      {}
func (*Or) node()       {}

// String interface
func (n *Presence) String() string {
	return escape(n.Attribute, false)
}

// String interface
func (n *Compare) String() string {
	return escape(n.Attribute, false) + n.Op.String() + escape(n.Value, n.Quoted)
}

// String interface
func (n *Not) String() string {
	return "not " + group(n.Child, func(child Node) bool {
		switch child.(type) {
		case *And, *Or:
			return true
		}
		return false
	})
}

// String interface
func (n *And) String() string {
	parts := make([]string, len(n.Children))
	for i, child := range n.Children {
		parts[i] = group(child, func(child Node) bool {
			switch child.(type) {
			case *And, *Or:
				return true
			}
			return false
		})
	}
	return strings.Join(parts, " and ")
}

// String interface
func (n *Or) String() string {
	parts := make([]string, len(n.Children))
	for i, child := range n.Children {
		parts[i] = group(child, func(child Node) bool {
			_, isOr := child.(*Or)
			return isOr
		})
	}
	return strings.Join(parts, " or ")
}

func group(child Node, needParens func(Node) bool) string {
	if needParens(child) {
		return "(" + child.String() + ")"
	}
	return child.String()
}

// escape quotes value if it can't be written as bare word
func escape(val string, force bool) string {
	_, isKeyword := keywords[val]
	if !force && !isKeyword && val != "" && strings.IndexFunc(val, func(r rune) bool {
		return unicode.IsSpace(r) || !unicode.IsPrint(r) || strings.ContainsRune(reserved, r)
	}) == -1 {
		return val
	}
	return "\"" + strings.NewReplacer("\\", "\\\\", "\"", "\\\"").Replace(val) + "\""
}

// Attributes lists attribute names referenced by the tree, in order of first appearance
func Attributes(n Node) (result []string) {
	seen := map[string]bool{}

	var walk func(Node)
	walk = func(n Node) {
		var attr string
		switch n := n.(type) {
		case *Presence:
			attr = n.Attribute
		case *Compare:
			attr = n.Attribute
		case *Not:
			walk(n.Child)
			return
		case *And:
			for _, child := range n.Children {
				walk(child)
			}
			return
		case *Or:
			for _, child := range n.Children {
				walk(child)
			}
			return
		default:
			return
		}
		if !seen[attr] {
			seen[attr] = true
			result = append(result, attr)
		}
	}
	walk(n)

	return
}

// References checks whether tree tests given attribute anywhere
func References(n Node, attribute string) bool {
	for _, attr := range Attributes(n) {
		if attr == attribute {
			return true
		}
	}
	return false
}
