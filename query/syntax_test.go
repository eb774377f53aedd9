package query_test

import (
	"github.com/pkgsel/pkgsel/query"

	. "gopkg.in/check.v1"
)

type SyntaxSuite struct {
}

var _ = Suite(&SyntaxSuite{})

func (s *SyntaxSuite) TestParsing(c *C) {
	q, err := query.Parse(`desc="a=b and c"`)
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.Compare{Attribute: "desc", Op: query.Equals, Value: "a=b and c", Quoted: true})

	q, err = query.Parse("license!=MIT")
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.Compare{Attribute: "license", Op: query.NotEquals, Value: "MIT"})

	q, err = query.Parse("tag")
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.Presence{Attribute: "tag"})

	q, err = query.Parse(`"and"=x`)
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.Compare{Attribute: "and", Op: query.Equals, Value: "x"})
}

func (s *SyntaxSuite) TestPrecedence(c *C) {
	q, err := query.Parse("a and b or c")
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.Or{Children: []query.Node{
		&query.And{Children: []query.Node{&query.Presence{Attribute: "a"}, &query.Presence{Attribute: "b"}}},
		&query.Presence{Attribute: "c"},
	}})

	q, err = query.Parse("not a and b")
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.And{Children: []query.Node{
		&query.Not{Child: &query.Presence{Attribute: "a"}},
		&query.Presence{Attribute: "b"},
	}})

	q, err = query.Parse("a or b or c and d")
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.Or{Children: []query.Node{
		&query.Presence{Attribute: "a"},
		&query.Presence{Attribute: "b"},
		&query.And{Children: []query.Node{&query.Presence{Attribute: "c"}, &query.Presence{Attribute: "d"}}},
	}})

	q, err = query.Parse("not not a")
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.Not{Child: &query.Not{Child: &query.Presence{Attribute: "a"}}})
}

func (s *SyntaxSuite) TestFlattening(c *C) {
	q, err := query.Parse("a and b and c")
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.And{Children: []query.Node{&query.Presence{Attribute: "a"}, &query.Presence{Attribute: "b"}, &query.Presence{Attribute: "c"}}})

	q, err = query.Parse("a=1 or b=2 or c=3")
	c.Assert(err, IsNil)
	c.Check(q.(*query.Or).Children, HasLen, 3)

	// parentheses start a new group
	q, err = query.Parse("a and (b and c)")
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.And{Children: []query.Node{
		&query.Presence{Attribute: "a"},
		&query.And{Children: []query.Node{&query.Presence{Attribute: "b"}, &query.Presence{Attribute: "c"}}},
	}})
}

func (s *SyntaxSuite) TestParentheses(c *C) {
	q, err := query.Parse("not (a and b)")
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.Not{Child: &query.And{Children: []query.Node{&query.Presence{Attribute: "a"}, &query.Presence{Attribute: "b"}}}})

	q, err = query.Parse("((name = glibc))")
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.Compare{Attribute: "name", Op: query.Equals, Value: "glibc"})

	q, err = query.Parse("a and (b or c)")
	c.Assert(err, IsNil)
	c.Check(q, DeepEquals, &query.And{Children: []query.Node{
		&query.Presence{Attribute: "a"},
		&query.Or{Children: []query.Node{&query.Presence{Attribute: "b"}, &query.Presence{Attribute: "c"}}},
	}})
}

func (s *SyntaxSuite) TestParsingErrors(c *C) {
	for _, t := range []struct {
		query    string
		expected *query.SyntaxError
	}{
		{"a and (b", &query.SyntaxError{Column: 7, Message: "unmatched '('"}},
		{"a and", &query.SyntaxError{Column: 6, Message: "unexpected token <EOL>: expecting attribute name"}},
		{"a b", &query.SyntaxError{Column: 3, Message: "unexpected token \"b\": expecting end of query"}},
		{"a=", &query.SyntaxError{Column: 3, Message: "unexpected token <EOL>: expecting value"}},
		{"and", &query.SyntaxError{Column: 1, Message: "unexpected token and: expecting attribute name"}},
		{"a = and", &query.SyntaxError{Column: 5, Message: "unexpected token and: expecting value"}},
		{"(a b)", &query.SyntaxError{Column: 4, Message: "unexpected token \"b\": expecting ')'"}},
		{"a)", &query.SyntaxError{Column: 2, Message: "unexpected token ): expecting end of query"}},
		{"a!b", &query.SyntaxError{Column: 2, Message: "unexpected character '!'"}},
		{`tag="x`, &query.SyntaxError{Column: 5, Message: "unexpected eof in quoted string"}},
		{"a = = b", &query.SyntaxError{Column: 5, Message: "unexpected token =: expecting value"}},
		{"ä and (b", &query.SyntaxError{Column: 7, Message: "unmatched '('"}},
	} {
		q, err := query.Parse(t.query)
		c.Check(q, IsNil, Commentf("query: %s", t.query))
		c.Check(err, DeepEquals, t.expected, Commentf("query: %s", t.query))
	}
}
