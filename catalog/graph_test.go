package catalog

import (
	"strings"

	. "gopkg.in/check.v1"
)

type GraphSuite struct{}

var _ = Suite(&GraphSuite{})

func (s *GraphSuite) TestBuildGraph(c *C) {
	list := sampleList(c)
	list.ByName("python").Add(AttrOptDepend, "bash: for scripts")
	c.Assert(list.Add(Record{AttrName: {"zsh"}, AttrDepend: {"sh", "zsh"}}), IsNil)

	graph, err := BuildGraph(list, "horizontal")
	c.Assert(err, IsNil)

	dot := graph.String()
	c.Check(strings.HasPrefix(dot, "digraph pkgsel"), Equals, true)

	for _, name := range []string{"bash", "glibc", "python", "ripgrep", "zsh"} {
		c.Check(strings.Contains(dot, name), Equals, true, Commentf("node %s", name))
	}

	c.Check(strings.Contains(dot, "bash->glibc"), Equals, true)
	c.Check(strings.Contains(dot, "python->glibc"), Equals, true)
	c.Check(strings.Contains(dot, "zsh->bash"), Equals, true)
	c.Check(strings.Contains(dot, "zsh->zsh"), Equals, false)
	c.Check(strings.Contains(dot, "ripgrep->"), Equals, false)
	c.Check(strings.Contains(dot, "style=dashed"), Equals, true)
	c.Check(strings.Contains(dot, "rankdir"), Equals, false)
}

func (s *GraphSuite) TestVerticalLayout(c *C) {
	graph, err := BuildGraph(sampleList(c), "vertical")
	c.Assert(err, IsNil)
	c.Check(strings.Contains(graph.String(), "rankdir=LR"), Equals, true)
}
