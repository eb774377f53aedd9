package query

import (
	check "gopkg.in/check.v1"
)

type LexerSuite struct {
}

var _ = check.Suite(&LexerSuite{})

func (s *LexerSuite) TestLexing(c *check.C) {
	l := lex(`name=glibc and not (tag != "a b")`)

	c.Check(l.items, check.DeepEquals, []item{
		{typ: itemWord, val: "name", pos: 0},
		{typ: itemEq, val: "=", pos: 4},
		{typ: itemWord, val: "glibc", pos: 5},
		{typ: itemAnd, val: "and", pos: 11},
		{typ: itemNot, val: "not", pos: 15},
		{typ: itemLeftParen, val: "(", pos: 19},
		{typ: itemWord, val: "tag", pos: 20},
		{typ: itemNotEq, val: "!=", pos: 24},
		{typ: itemQuoted, val: "a b", pos: 27},
		{typ: itemRightParen, val: ")", pos: 32},
		{typ: itemEOF, val: "", pos: 33},
	})
}

func (s *LexerSuite) TestNotEqualsBeforeEquals(c *check.C) {
	l := lex("a!=b")

	c.Check(l.items, check.DeepEquals, []item{
		{typ: itemWord, val: "a", pos: 0},
		{typ: itemNotEq, val: "!=", pos: 1},
		{typ: itemWord, val: "b", pos: 3},
		{typ: itemEOF, val: "", pos: 4},
	})
}

func (s *LexerSuite) TestKeywords(c *check.C) {
	l := lex("(a)or(andx)")

	types := []itemType{}
	for _, it := range l.items {
		types = append(types, it.typ)
	}
	c.Check(types, check.DeepEquals, []itemType{itemLeftParen, itemWord, itemRightParen, itemOr,
		itemLeftParen, itemWord, itemRightParen, itemEOF})
	c.Check(l.items[5].val, check.Equals, "andx")

	l = lex(`"not"`)
	c.Check(l.items[0], check.Equals, item{typ: itemQuoted, val: "not", pos: 0})
}

func (s *LexerSuite) TestQuoted(c *check.C) {
	l := lex(`"a\"b\\c" "x=(y)!"`)

	c.Check(l.items[0], check.Equals, item{typ: itemQuoted, val: `a"b\c`, pos: 0})
	c.Check(l.items[1], check.Equals, item{typ: itemQuoted, val: "x=(y)!", pos: 10})
	c.Check(l.items[2].typ, check.Equals, itemEOF)
}

func (s *LexerSuite) TestErrors(c *check.C) {
	l := lex("a!b")
	c.Check(l.items[1], check.Equals, item{typ: itemError, val: "unexpected character '!'", pos: 1})
	c.Check(len(l.items), check.Equals, 2)

	l = lex(`tag="abc`)
	c.Check(l.items[2], check.Equals, item{typ: itemError, val: "unexpected eof in quoted string", pos: 4})
}

func (s *LexerSuite) TestConsume(c *check.C) {
	l := lex("a=b")

	c.Check(l.Current(), check.Equals, item{typ: itemWord, val: "a", pos: 0})
	c.Check(l.Current(), check.Equals, item{typ: itemWord, val: "a", pos: 0})
	l.Consume()
	c.Check(l.Current(), check.Equals, item{typ: itemEq, val: "=", pos: 1})
	l.Consume()
	l.Consume()
	l.Consume()
	c.Check(l.Current().typ, check.Equals, itemEOF)
}

func (s *LexerSuite) TestString(c *check.C) {
	l := lex("package (")

	c.Check(l.Current().String(), check.Equals, "\"package\"")
	l.Consume()
	c.Check(l.Current().String(), check.Equals, "(")
	l.Consume()
	c.Check(l.Current().String(), check.Equals, "<EOL>")
}

func (s *LexerSuite) TestColumn(c *check.C) {
	l := lex("ä and (b")
	c.Check(l.column(l.items[2].pos), check.Equals, 7)
}
