package query

import (
	"fmt"
)

type parser struct {
	input *lexer // the input lexer
}

func parse(input *lexer) (result Node, err error) {
	p := &parser{
		input: input,
	}

	defer func() {
		if r := recover(); r != nil {
			syntaxErr, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			result, err = nil, syntaxErr
		}
	}()

	result = p.parse()
	return
}

// fail aborts parsing on unexpected token it
func (p *parser) fail(it item, expecting string) {
	message := fmt.Sprintf("unexpected token %s: %s", it, expecting)
	if it.typ == itemError {
		message = it.val
	}

	p.abort(it, message)
}

// abort aborts parsing with error located at token it
func (p *parser) abort(it item, message string) {
	panic(&SyntaxError{Column: p.input.column(it.pos), Message: message})
}

// Entry into parser
func (p *parser) parse() Node {
	q := p.Expression()
	if p.input.Current().typ != itemEOF {
		p.fail(p.input.Current(), "expecting end of query")
	}
	return q
}

// Expression := Term | Term 'or' Expression
func (p *parser) Expression() Node {
	children := []Node{p.Term()}
	for p.input.Current().typ == itemOr {
		p.input.Consume()
		children = append(children, p.Term())
	}

	if len(children) == 1 {
		return children[0]
	}
	return &Or{Children: children}
}

// Term := Factor | Factor 'and' Term
func (p *parser) Term() Node {
	children := []Node{p.Factor()}
	for p.input.Current().typ == itemAnd {
		p.input.Consume()
		children = append(children, p.Factor())
	}

	if len(children) == 1 {
		return children[0]
	}
	return &And{Children: children}
}

// Factor := Primary | 'not' Factor
func (p *parser) Factor() Node {
	if p.input.Current().typ == itemNot {
		p.input.Consume()
		return &Not{Child: p.Factor()}
	}
	return p.Primary()
}

// Primary := '(' Expression ')' | Condition
func (p *parser) Primary() Node {
	if p.input.Current().typ == itemLeftParen {
		open := p.input.Current()
		p.input.Consume()
		q := p.Expression()
		switch p.input.Current().typ {
		case itemRightParen:
			p.input.Consume()
		case itemEOF:
			p.abort(open, "unmatched '('")
		default:
			p.fail(p.input.Current(), "expecting ')'")
		}
		return q
	}
	return p.Condition()
}

// Condition := operand | operand ('=' | '!=') operand
func (p *parser) Condition() Node {
	attribute, _ := p.operand("expecting attribute name")

	var op Op
	switch p.input.Current().typ {
	case itemEq:
		op = Equals
	case itemNotEq:
		op = NotEquals
	default:
		return &Presence{Attribute: attribute}
	}
	p.input.Consume()

	value, quoted := p.operand("expecting value")
	return &Compare{Attribute: attribute, Op: op, Value: value, Quoted: quoted}
}

// operand := word | quoted
func (p *parser) operand(expecting string) (string, bool) {
	it := p.input.Current()
	if it.typ != itemWord && it.typ != itemQuoted {
		p.fail(it, expecting)
	}
	p.input.Consume()

	return it.val, it.typ == itemQuoted
}
