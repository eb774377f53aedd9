package catalog

import (
	"archive/tar"
	"bytes"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	. "gopkg.in/check.v1"
)

type SyncDBSuite struct{}

var _ = Suite(&SyncDBSuite{})

const bashDesc = `%FILENAME%
bash-5.2.026-2-x86_64.pkg.tar.zst

%NAME%
bash

%VERSION%
5.2.026-2

%DESC%
The GNU Bourne Again shell

%URL%
https://www.gnu.org/software/bash/bash.html

%LICENSE%
GPL-3.0-or-later

%PACKAGER%
Packager <packager@example.org>

%PROVIDES%
sh

%DEPENDS%
readline>=7.0
glibc
ncurses

%OPTDEPENDS%
bash-completion: for tab completion

`

const bashFiles = `%FILES%
usr/
usr/bin/
usr/bin/bash
usr/bin/sh

`

const glibcDesc = `%NAME%
glibc

%GROUPS%
base

%LICENSE%
GPL
LGPL
`

func buildTar(c *C, entries map[string]string, order []string) []byte {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	for _, name := range order {
		if strings.HasSuffix(name, "/") {
			c.Assert(tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeDir, Mode: 0755}), IsNil)
			continue
		}
		content := entries[name]
		c.Assert(tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(content))}), IsNil)
		_, err := tw.Write([]byte(content))
		c.Assert(err, IsNil)
	}
	c.Assert(tw.Close(), IsNil)
	return buf.Bytes()
}

func (s *SyncDBSuite) sampleTar(c *C) []byte {
	return buildTar(c, map[string]string{
		"glibc-2.39-1/desc":      glibcDesc,
		"bash-5.2.026-2/desc":    bashDesc,
		"bash-5.2.026-2/files":   bashFiles,
		"bash-5.2.026-2/unknown": "ignored",
	}, []string{
		"glibc-2.39-1/", "glibc-2.39-1/desc",
		"bash-5.2.026-2/", "bash-5.2.026-2/files", "bash-5.2.026-2/desc", "bash-5.2.026-2/unknown",
	})
}

func (s *SyncDBSuite) check(c *C, data []byte) {
	records, files, err := ReadSyncDB(bytes.NewReader(data), "core")
	c.Assert(err, IsNil)
	c.Assert(records, HasLen, 2)

	bash, glibc := records[0], records[1]
	c.Check(bash, DeepEquals, Record{
		AttrName:      {"bash"},
		AttrDesc:      {"The GNU Bourne Again shell"},
		AttrURL:       {"https://www.gnu.org/software/bash/bash.html"},
		AttrLicense:   {"GPL-3.0-or-later"},
		AttrPackager:  {"Packager <packager@example.org>"},
		AttrProvide:   {"sh"},
		AttrDepend:    {"readline>=7.0", "glibc", "ncurses"},
		AttrOptDepend: {"bash-completion: for tab completion"},
		AttrRepo:      {"core"},
	})
	c.Check(glibc, DeepEquals, Record{
		AttrName:    {"glibc"},
		AttrGroup:   {"base"},
		AttrLicense: {"GPL", "LGPL"},
		AttrRepo:    {"core"},
	})

	c.Check(files, DeepEquals, FileIndex{"bash": {"usr/", "usr/bin/", "usr/bin/bash", "usr/bin/sh"}})
}

func (s *SyncDBSuite) TestPlainTar(c *C) {
	s.check(c, s.sampleTar(c))
}

func (s *SyncDBSuite) TestGzip(c *C) {
	var buf bytes.Buffer
	w := pgzip.NewWriter(&buf)
	_, err := w.Write(s.sampleTar(c))
	c.Assert(err, IsNil)
	c.Assert(w.Close(), IsNil)

	s.check(c, buf.Bytes())
}

func (s *SyncDBSuite) TestZstd(c *C) {
	enc, err := zstd.NewWriter(nil)
	c.Assert(err, IsNil)
	defer enc.Close()

	s.check(c, enc.EncodeAll(s.sampleTar(c), nil))
}

func (s *SyncDBSuite) TestMissingName(c *C) {
	data := buildTar(c, map[string]string{"x-1/desc": "%DESC%\nno name\n"}, []string{"x-1/desc"})

	_, _, err := ReadSyncDB(bytes.NewReader(data), "core")
	c.Check(err, ErrorMatches, "package x-1 in core database: record should have exactly one non-empty name.*")
}

func (s *SyncDBSuite) TestMissingDesc(c *C) {
	data := buildTar(c, map[string]string{"x-1/files": bashFiles}, []string{"x-1/files"})

	_, _, err := ReadSyncDB(bytes.NewReader(data), "core")
	c.Check(err, ErrorMatches, "package x-1 in core database has no desc entry")
}

func (s *SyncDBSuite) TestMalformedDesc(c *C) {
	data := buildTar(c, map[string]string{"x-1/desc": "garbage\n"}, []string{"x-1/desc"})

	_, _, err := ReadSyncDB(bytes.NewReader(data), "core")
	c.Check(err, ErrorMatches, "error parsing x-1/desc in core database: expected section header, got \"garbage\"")
}

func (s *SyncDBSuite) TestParseSections(c *C) {
	sections, err := parseSections(strings.NewReader("%A%\n1\n2\n\n\n%B%\r\nx\r\n\n%EMPTY%\n\n"))
	c.Assert(err, IsNil)
	c.Check(sections, DeepEquals, map[string][]string{"A": {"1", "2"}, "B": {"x"}, "EMPTY": nil})
}
