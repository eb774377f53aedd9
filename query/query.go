// Package query implements query language for package selection
package query

import (
	"fmt"
	"strings"
)

/*

  Query language tests package attributes:

  Expression := Term | Term 'or' Expression
  Term := Factor | Factor 'and' Term
  Factor := Primary | 'not' Factor
  Primary := '(' Expression ')' | Condition
  Condition := operand | operand operator operand
  operand := word | '"' quoted '"'
  operator := '=' | '!='

  word is a run of printable characters except whitespace and !"=()
  Keywords and, or, not should be quoted to be used as operands.

  Chains of the same operator are folded into single And/Or node.

*/

// SyntaxError is returned when query can't be parsed
type SyntaxError struct {
	// Column is 1-based position of the first token which couldn't be parsed
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Error parsing query at column %d: %s", e.Column, e.Message)
}

// IsEmpty checks whether query selects everything without parsing
func IsEmpty(query string) bool {
	return strings.TrimSpace(query) == ""
}

// Parse parses input package query into query tree ready for evaluation
//
// Empty queries should be handled by the caller, see IsEmpty.
func Parse(query string) (Node, error) {
	return parse(lex(query))
}
