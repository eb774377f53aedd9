package catalog

import (
	"os"
	"path/filepath"
	"strings"

	. "gopkg.in/check.v1"
)

type TagsSuite struct {
	dir   string
	store *TagStore
}

var _ = Suite(&TagsSuite{})

func (s *TagsSuite) SetUpTest(c *C) {
	s.dir = filepath.Join(c.MkDir(), "tags")
	s.store = NewTagStore(s.dir)
}

func (s *TagsSuite) TestParseTags(c *C) {
	tags, err := ParseTags(strings.NewReader("fast  # really fast\n\n   \n# whole line comment\n  cli\nterminal ui\n"))
	c.Assert(err, IsNil)
	c.Check(tags, DeepEquals, []string{"fast", "cli", "terminal ui"})

	tags, err = ParseTags(strings.NewReader(""))
	c.Assert(err, IsNil)
	c.Check(tags, HasLen, 0)
}

func (s *TagsSuite) TestMissing(c *C) {
	tags, err := s.store.Tags("bash")
	c.Assert(err, IsNil)
	c.Check(tags, IsNil)

	all, err := s.store.LoadAll()
	c.Assert(err, IsNil)
	c.Check(all, HasLen, 0)
}

func (s *TagsSuite) TestAddRemove(c *C) {
	tags, err := s.store.Add("bash", "shell", "base", "shell", " ")
	c.Assert(err, IsNil)
	c.Check(tags, DeepEquals, []string{"shell", "base"})

	tags, err = s.store.Add("bash", "gnu")
	c.Assert(err, IsNil)
	c.Check(tags, DeepEquals, []string{"shell", "base", "gnu"})

	tags, err = s.store.Tags("bash")
	c.Assert(err, IsNil)
	c.Check(tags, DeepEquals, []string{"shell", "base", "gnu"})

	tags, err = s.store.Remove("bash", "base", "missing")
	c.Assert(err, IsNil)
	c.Check(tags, DeepEquals, []string{"shell", "gnu"})

	_, err = s.store.Remove("bash", "shell", "gnu")
	c.Assert(err, IsNil)

	_, err = os.Stat(filepath.Join(s.dir, "bash"))
	c.Check(os.IsNotExist(err), Equals, true)
}

func (s *TagsSuite) TestInvalidName(c *C) {
	_, err := s.store.Add("../etc", "x")
	c.Check(err, ErrorMatches, "invalid package name.*")

	_, err = s.store.Tags("")
	c.Check(err, NotNil)
}

func (s *TagsSuite) TestLoadAll(c *C) {
	c.Assert(os.MkdirAll(filepath.Join(s.dir, "nested"), 0755), IsNil)
	c.Assert(os.WriteFile(filepath.Join(s.dir, "bash"), []byte("shell\n# comment\n"), 0644), IsNil)
	c.Assert(os.WriteFile(filepath.Join(s.dir, "ripgrep"), []byte("fast\ncli # search\n"), 0644), IsNil)
	c.Assert(os.WriteFile(filepath.Join(s.dir, "empty"), []byte("# nothing\n"), 0644), IsNil)
	c.Assert(os.WriteFile(filepath.Join(s.dir, ".hidden"), []byte("secret\n"), 0644), IsNil)
	c.Assert(os.WriteFile(filepath.Join(s.dir, "nested", "zsh"), []byte("shell\n"), 0644), IsNil)

	all, err := s.store.LoadAll()
	c.Assert(err, IsNil)
	c.Check(all, DeepEquals, map[string][]string{
		"bash":    {"shell"},
		"ripgrep": {"fast", "cli"},
	})
}
