package query

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// itemType identifies the type of lex items.
type itemType int

const eof = -1

const (
	itemNull  itemType = iota
	itemError          // error occurred;
	// value is text of error
	itemEOF
	itemLeftParen  // (
	itemRightParen // )
	itemEq         // =
	itemNotEq      // !=
	itemNot        // not
	itemAnd        // and
	itemOr         // or
	itemWord       // bare word
	itemQuoted     // "quoted string"
)

// reserved characters never appear inside a bare word
const reserved = "!\"=()"

var keywords = map[string]itemType{
	"not": itemNot,
	"and": itemAnd,
	"or":  itemOr,
}

// item represents a token returned from the scanner.
type item struct {
	typ itemType // Type, such as itemWord.
	val string   // Value, such as "glibc".
	pos int      // byte offset of the token in the input
}

func (i item) String() string {
	switch i.typ {
	case itemWord, itemQuoted:
		return fmt.Sprintf("%#v", i.val)
	case itemEOF:
		return "<EOL>"
	case itemError:
		return fmt.Sprintf("error: %s", i.val)
	case itemNull:
		return "<NULL>"
	}
	return i.val
}

// stateFn represents the state of the scanner
// as a function that returns the next state.
type stateFn func(*lexer) stateFn

// lexer holds the state of the scanner.
type lexer struct {
	input string // the string being scanned.
	start int    // start position of this item.
	pos   int    // current position in the input.
	width int    // width of last rune read from input.
	items []item // scanned items.
	cur   int    // index of current item for the parser
}

// lex scans the whole input; scanning stops at the first error item.
func lex(input string) *lexer {
	l := &lexer{
		input: input,
	}
	l.run()
	return l
}

// emit records an item of the pending input.
func (l *lexer) emit(t itemType) {
	l.items = append(l.items, item{t, l.input[l.start:l.pos], l.start})
	l.start = l.pos
}

// run lexes the input by executing state functions until
// the state is nil.
func (l *lexer) run() {
	for state := lexMain; state != nil; {
		state = state(l)
	}
}

// next returns the next rune in the input.
func (l *lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width =
		utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return r
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
}

// backup steps back one rune.
// Can be called only once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
}

// peek returns but does not consume
// the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// Current returns the item under the parser's cursor
func (l *lexer) Current() item {
	return l.items[l.cur]
}

// Consume advances the cursor, it never moves past the final item
func (l *lexer) Consume() {
	if l.cur < len(l.items)-1 {
		l.cur++
	}
}

// column converts byte offset into 1-based character column
func (l *lexer) column(pos int) int {
	return utf8.RuneCountInString(l.input[:pos]) + 1
}

// errorf records an error token at start of the pending input and
// terminates the scan by returning nil state.
func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.items = append(l.items, item{
		itemError,
		fmt.Sprintf(format, args...),
		l.start,
	})
	return nil
}

func lexMain(l *lexer) stateFn {
	switch r := l.next(); {
	case r == eof:
		l.emit(itemEOF)
		return nil
	case unicode.IsSpace(r):
		l.ignore()
	case r == '(':
		l.emit(itemLeftParen)
	case r == ')':
		l.emit(itemRightParen)
	case r == '!':
		// != must win over a lone !
		if l.peek() != '=' {
			return l.errorf("unexpected character '!'")
		}
		l.next()
		l.emit(itemNotEq)
	case r == '=':
		l.emit(itemEq)
	case r == '"':
		return lexQuoted
	case !unicode.IsPrint(r):
		return l.errorf("unexpected character %q", r)
	default:
		l.backup()
		return lexWord
	}

	return lexMain
}

// lexQuoted scans double-quoted string, opening quote is already consumed
func lexQuoted(l *lexer) stateFn {
	var result strings.Builder
	for {
		r := l.next()
		switch r {
		case eof:
			return l.errorf("unexpected eof in quoted string")
		case '"':
			l.items = append(l.items, item{itemQuoted, result.String(), l.start})
			l.start = l.pos
			return lexMain
		case '\\':
			r = l.next()
			if r == eof {
				return l.errorf("unexpected eof in quoted string")
			}
		}
		result.WriteRune(r)
	}
}

func lexWord(l *lexer) stateFn {
	for {
		r := l.next()
		if r == eof || unicode.IsSpace(r) || !unicode.IsPrint(r) || strings.ContainsRune(reserved, r) {
			if r != eof {
				l.backup()
			}
			break
		}
	}

	if typ, ok := keywords[l.input[l.start:l.pos]]; ok {
		l.emit(typ)
	} else {
		l.emit(itemWord)
	}
	return lexMain
}
