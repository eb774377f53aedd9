package catalog

import (
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"
)

type CategoriesSuite struct{}

var _ = Suite(&CategoriesSuite{})

func (s *CategoriesSuite) TestParse(c *C) {
	categories, err := ParseCategories([]byte(`
bash: shells
ripgrep:
  - utilities
  - search
empty: []
`))
	c.Assert(err, IsNil)
	c.Check(categories, DeepEquals, Categories{
		"bash":    {"shells"},
		"ripgrep": {"utilities", "search"},
	})
}

func (s *CategoriesSuite) TestParseInvalid(c *C) {
	_, err := ParseCategories([]byte("bash: {a: b}"))
	c.Check(err, ErrorMatches, "invalid category index.*")
}

func (s *CategoriesSuite) TestLoad(c *C) {
	dir := c.MkDir()

	categories, err := LoadCategories(filepath.Join(dir, "missing.yaml"))
	c.Assert(err, IsNil)
	c.Check(categories, HasLen, 0)

	path := filepath.Join(dir, "categories.yaml")
	c.Assert(os.WriteFile(path, []byte("glibc: [libraries, base]\n"), 0644), IsNil)

	categories, err = LoadCategories(path)
	c.Assert(err, IsNil)
	c.Check(categories["glibc"], DeepEquals, []string{"libraries", "base"})
}
