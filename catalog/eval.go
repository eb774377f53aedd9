package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/pkgsel/pkgsel/query"
)

// MatchMode selects how comparison values are matched against record values
type MatchMode int

// Match modes
const (
	// Exact requires whole value to be equal
	Exact MatchMode = iota
	// RegexPrefix treats comparison value as regexp which should match at start of value
	RegexPrefix
)

func (m MatchMode) String() string {
	if m == RegexPrefix {
		return "regex"
	}
	return "exact"
}

// ParseMatchMode converts config/flag value into MatchMode
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(s) {
	case "", "exact":
		return Exact, nil
	case "regex", "regexp":
		return RegexPrefix, nil
	}
	return Exact, fmt.Errorf("unknown match mode %q, expecting exact or regex", s)
}

// EvaluationError is raised (via panic) when query tree has unexpected shape
//
// It can't happen for trees produced by query.Parse.
type EvaluationError struct {
	Node query.Node
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("unable to evaluate query node %#v", e.Node)
}

// Evaluator matches records against query trees
//
// Evaluator is safe for concurrent use if its FileIndexProvider is.
type Evaluator struct {
	Mode  MatchMode
	Files FileIndexProvider

	patterns sync.Map
}

// NewEvaluator creates evaluator, files might be nil if file attribute is not needed
func NewEvaluator(mode MatchMode, files FileIndexProvider) *Evaluator {
	return &Evaluator{Mode: mode, Files: files}
}

// Evaluate matches single record against query tree using mode, file attribute never matches
func Evaluate(r Record, n query.Node, mode MatchMode) bool {
	return NewEvaluator(mode, nil).Evaluate(r, n)
}

// Compile verifies that all comparison values are valid regular expressions (in RegexPrefix mode)
func (e *Evaluator) Compile(n query.Node) error {
	if e.Mode != RegexPrefix {
		return nil
	}

	switch n := n.(type) {
	case *query.Compare:
		_, err := e.pattern(n.Value)
		return err
	case *query.Not:
		return e.Compile(n.Child)
	case *query.And:
		return e.compileAll(n.Children)
	case *query.Or:
		return e.compileAll(n.Children)
	}
	return nil
}

func (e *Evaluator) compileAll(children []query.Node) error {
	for _, child := range children {
		if err := e.Compile(child); err != nil {
			return err
		}
	}
	return nil
}

type compiledPattern struct {
	re  *regexp.Regexp
	err error
}

// pattern returns cached regexp anchored at the start of value
func (e *Evaluator) pattern(value string) (*regexp.Regexp, error) {
	if cached, ok := e.patterns.Load(value); ok {
		p := cached.(compiledPattern)
		return p.re, p.err
	}

	// value must stand on its own, so it can't close the anchoring group
	_, err := regexp.Compile(value)
	var re *regexp.Regexp
	if err == nil {
		re, err = regexp.Compile("^(?:" + value + ")")
	}
	if err != nil {
		re, err = nil, errors.Wrapf(err, "invalid pattern %q", value)
	}
	e.patterns.Store(value, compiledPattern{re, err})
	return re, err
}

// Evaluate matches record against query tree
func (e *Evaluator) Evaluate(r Record, n query.Node) bool {
	switch n := n.(type) {
	case *query.Presence:
		return len(e.values(r, n.Attribute)) > 0
	case *query.Compare:
		switch n.Op {
		case query.Equals:
			return e.any(e.values(r, n.Attribute), n.Value)
		case query.NotEquals:
			return !e.any(e.values(r, n.Attribute), n.Value)
		}
	case *query.Not:
		return !e.Evaluate(r, n.Child)
	case *query.And:
		for _, child := range n.Children {
			if !e.Evaluate(r, child) {
				return false
			}
		}
		return true
	case *query.Or:
		for _, child := range n.Children {
			if e.Evaluate(r, child) {
				return true
			}
		}
		return false
	}

	panic(&EvaluationError{Node: n})
}

// values resolves attribute of the record, file goes through file index
func (e *Evaluator) values(r Record, attr string) []string {
	if attr == AttrFile {
		if e.Files == nil {
			return nil
		}
		return e.Files.Files(r.Name())
	}
	return r[attr]
}

// any checks whether at least one of values matches
func (e *Evaluator) any(values []string, expected string) bool {
	if len(values) == 0 {
		return false
	}

	if e.Mode == RegexPrefix {
		re, err := e.pattern(expected)
		if err != nil {
			return false
		}
		for _, value := range values {
			if re.MatchString(value) {
				return true
			}
		}
		return false
	}

	for _, value := range values {
		if value == expected {
			return true
		}
	}
	return false
}
