package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	. "gopkg.in/check.v1"
)

type FileIndexSuite struct{}

var _ = Suite(&FileIndexSuite{})

func (s *FileIndexSuite) TestStaticIndex(c *C) {
	idx := FileIndex{"bash": {"usr/bin/bash"}}
	c.Check(idx.Files("bash"), DeepEquals, []string{"usr/bin/bash"})
	c.Check(idx.Files("zsh"), IsNil)

	idx.Merge(FileIndex{"bash": {"bin/bash"}, "zsh": {"usr/bin/zsh"}})
	c.Check(idx.Files("bash"), DeepEquals, []string{"bin/bash"})
	c.Check(idx.Files("zsh"), DeepEquals, []string{"usr/bin/zsh"})
}

func (s *FileIndexSuite) TestLazyLoadsOnceConcurrently(c *C) {
	idx := &countingIndex{files: FileIndex{"bash": {"usr/bin/bash"}}}
	lazy := NewLazyFileIndex(idx.load)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Check(lazy.Files("bash"), DeepEquals, []string{"usr/bin/bash"})
		}()
	}
	wg.Wait()

	c.Check(atomic.LoadInt32(&idx.loads), Equals, int32(1))
	c.Check(lazy.Load(), IsNil)
	c.Check(atomic.LoadInt32(&idx.loads), Equals, int32(1))
}

func (s *FileIndexSuite) TestLazyLoadFailure(c *C) {
	calls := 0
	lazy := NewLazyFileIndex(func() (FileIndex, error) {
		calls++
		return nil, errors.New("corrupted")
	})

	c.Check(lazy.Files("bash"), IsNil)
	c.Check(lazy.Load(), ErrorMatches, "corrupted")
	c.Check(lazy.Files("bash"), IsNil)
	c.Check(calls, Equals, 1)
}

func (s *FileIndexSuite) TestSaveLoad(c *C) {
	path := filepath.Join(c.MkDir(), "files.idx")
	idx := FileIndex{
		"bash":  {"usr/bin/bash", "usr/share/man/man1/bash.1.gz"},
		"glibc": {"usr/lib/libc.so.6"},
	}

	c.Assert(SaveFileIndex(path, idx), IsNil)

	_, err := os.Stat(path + ".tmp")
	c.Check(os.IsNotExist(err), Equals, true)

	loaded, err := LoadFileIndex(path)
	c.Assert(err, IsNil)
	c.Check(loaded, DeepEquals, idx)
}

func (s *FileIndexSuite) TestLoadCorrupted(c *C) {
	path := filepath.Join(c.MkDir(), "files.idx")
	c.Assert(os.WriteFile(path, []byte("garbage"), 0644), IsNil)

	_, err := LoadFileIndex(path)
	c.Check(err, ErrorMatches, "unable to load file index .*")
}

func (s *FileIndexSuite) TestFromFile(c *C) {
	dir := c.MkDir()

	idx, err := FileIndexFromFile(filepath.Join(dir, "missing.idx"))()
	c.Assert(err, IsNil)
	c.Check(idx, HasLen, 0)

	path := filepath.Join(dir, "files.idx")
	c.Assert(SaveFileIndex(path, FileIndex{"bash": {"usr/bin/bash"}}), IsNil)

	lazy := NewLazyFileIndex(FileIndexFromFile(path))
	c.Check(lazy.Files("bash"), DeepEquals, []string{"usr/bin/bash"})
}
