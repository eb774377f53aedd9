package catalog

import (
	"fmt"

	. "gopkg.in/check.v1"

	"github.com/pkgsel/pkgsel/query"
)

type FilterSuite struct{}

var _ = Suite(&FilterSuite{})

func (s *FilterSuite) TestEmptyQuerySelectsAll(c *C) {
	list := sampleList(c)

	result, err := Filter(list, nil, nil, 4)
	c.Assert(err, IsNil)
	c.Check(result.Names(), DeepEquals, list.Names())
}

func (s *FilterSuite) TestSequential(c *C) {
	list := sampleList(c)
	ev := NewEvaluator(Exact, nil)

	result, err := Filter(list, mustParse(c, "license=MIT"), ev, 1)
	c.Assert(err, IsNil)
	c.Check(result.Names(), DeepEquals, []string{"python", "ripgrep"})
	c.Check(result.ByName("ripgrep"), NotNil)
	c.Check(result.ByName("bash"), IsNil)

	result, err = Filter(list, mustParse(c, "name=nothing"), ev, 1)
	c.Assert(err, IsNil)
	c.Check(result.Len(), Equals, 0)
}

func bigList(c *C, n int) *RecordList {
	list := NewRecordList()
	for i := 0; i < n; i++ {
		r := NewRecord(fmt.Sprintf("pkg%05d", i))
		if i%3 == 0 {
			r.Add(AttrTag, "third")
		}
		c.Assert(list.Add(r), IsNil)
	}
	return list
}

func (s *FilterSuite) TestParallelKeepsOrder(c *C) {
	list := bigList(c, 5000)
	ev := NewEvaluator(Exact, nil)
	q := mustParse(c, "tag=third")

	sequential, err := Filter(list, q, ev, 1)
	c.Assert(err, IsNil)

	parallel, err := Filter(list, q, ev, 8)
	c.Assert(err, IsNil)

	c.Check(parallel.Len(), Equals, 1667)
	c.Check(parallel.Names(), DeepEquals, sequential.Names())
}

func (s *FilterSuite) TestParallelRaisesEvaluationError(c *C) {
	list := bigList(c, 2000)
	ev := NewEvaluator(Exact, nil)

	c.Check(func() {
		_, _ = Filter(list, &query.Not{}, ev, 4)
	}, PanicMatches, "unable to evaluate query node .*")
}
