package utils

import (
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"
)

type ConfigSuite struct {
	config ConfigStructure
}

var _ = Suite(&ConfigSuite{})

func (s *ConfigSuite) SetUpTest(c *C) {
	s.config = ConfigStructure{}
}

func (s *ConfigSuite) TestLoadConfig(c *C) {
	configname := filepath.Join(c.MkDir(), "pkgsel.conf")
	c.Assert(os.WriteFile(configname, []byte(configFile), 0644), IsNil)

	err := LoadConfig(configname, &s.config)
	c.Assert(err, IsNil)
	c.Check(s.config.GetRootDir(), Equals, "/opt/pkgsel/")
	c.Check(s.config.Repos, DeepEquals, []string{"core", "extra", "multilib"})
	c.Check(s.config.EvalWorkers, Equals, 8)
	c.Check(s.config.MatchMode, Equals, "regex")
}

func (s *ConfigSuite) TestLoadConfigYAML(c *C) {
	configname := filepath.Join(c.MkDir(), "pkgsel.yaml")
	c.Assert(os.WriteFile(configname, []byte(configFileYAML), 0644), IsNil)

	err := LoadConfig(configname, &s.config)
	c.Assert(err, IsNil)
	c.Check(s.config.GetRootDir(), Equals, "/srv/pkgsel")
	c.Check(s.config.Mirror, Equals, "https://mirror.example.org")
	c.Check(s.config.GpgKeyrings, DeepEquals, []string{"/usr/share/pacman/keyrings/archlinux.gpg"})
	c.Check(s.config.DownloadRetries, Equals, 5)
}

func (s *ConfigSuite) TestLoadConfigInvalid(c *C) {
	configname := filepath.Join(c.MkDir(), "pkgsel.conf")
	c.Assert(os.WriteFile(configname, []byte("{ rootDir: [ }"), 0644), IsNil)

	err := LoadConfig(configname, &s.config)
	c.Check(err, ErrorMatches, "invalid yaml .* or json .*")
}

func (s *ConfigSuite) TestLoadConfigMissing(c *C) {
	err := LoadConfig(filepath.Join(c.MkDir(), "none.conf"), &s.config)
	c.Check(os.IsNotExist(err), Equals, true)
}

func (s *ConfigSuite) TestSaveConfig(c *C) {
	configname := filepath.Join(c.MkDir(), "pkgsel.conf")

	s.config.RootDir = "/tmp/pkgsel"
	s.config.LogLevel = "info"
	s.config.LogFormat = "json"
	s.config.Mirror = "https://mirror.example.org"
	s.config.Repos = []string{"core"}
	s.config.Architecture = "x86_64"
	s.config.DownloadRetries = 2
	s.config.MatchMode = "exact"
	s.config.EvalWorkers = 4

	err := SaveConfig(configname, &s.config)
	c.Assert(err, IsNil)

	buf, err := os.ReadFile(configname)
	c.Assert(err, IsNil)

	c.Check(string(buf), Equals, ""+
		"{\n"+
		"  \"rootDir\": \"/tmp/pkgsel\",\n"+
		"  \"logLevel\": \"info\",\n"+
		"  \"logFormat\": \"json\",\n"+
		"  \"mirror\": \"https://mirror.example.org\",\n"+
		"  \"repos\": [\n"+
		"    \"core\"\n"+
		"  ],\n"+
		"  \"architecture\": \"x86_64\",\n"+
		"  \"tagsDir\": \"\",\n"+
		"  \"categoriesFile\": \"\",\n"+
		"  \"downloadRetries\": 2,\n"+
		"  \"downloadSpeedLimit\": 0,\n"+
		"  \"gpgDisableVerify\": false,\n"+
		"  \"gpgKeyrings\": null,\n"+
		"  \"matchMode\": \"exact\",\n"+
		"  \"evalWorkers\": 4,\n"+
		"  \"enableMetricsEndpoint\": false\n"+
		"}")
}

func (s *ConfigSuite) TestSaveLoadRoundTrip(c *C) {
	configname := filepath.Join(c.MkDir(), "pkgsel.conf")

	orig := Config
	c.Assert(SaveConfig(configname, &orig), IsNil)

	var loaded ConfigStructure
	c.Assert(LoadConfig(configname, &loaded), IsNil)
	c.Check(loaded, DeepEquals, orig)
}

func (s *ConfigSuite) TestMarshalYAMLDocument(c *C) {
	s.config.RootDir = "/tmp/pkgsel"
	s.config.Repos = []string{"core"}

	data, err := s.config.MarshalYAMLDocument()
	c.Assert(err, IsNil)
	c.Check(string(data), Matches, "(?s)root_dir: /tmp/pkgsel\n.*repos:\n    - core\n.*")
}

func (s *ConfigSuite) TestDerivedPaths(c *C) {
	s.config.RootDir = "/var/lib/pkgsel"
	c.Check(s.config.GetTagsDir(), Equals, "/var/lib/pkgsel/tags")
	c.Check(s.config.GetCategoriesFile(), Equals, "/var/lib/pkgsel/categories.yaml")

	s.config.TagsDir = "/etc/pkgsel/tags"
	s.config.CategoriesFile = "/etc/pkgsel/categories.yaml"
	c.Check(s.config.GetTagsDir(), Equals, "/etc/pkgsel/tags")
	c.Check(s.config.GetCategoriesFile(), Equals, "/etc/pkgsel/categories.yaml")
}

const configFile = `{
	// comments are allowed
	"rootDir": "/opt/pkgsel/",
	"repos": ["core", "extra", "multilib"],
	"matchMode": "regex",
	"evalWorkers": 8,
}`

const configFileYAML = `root_dir: /srv/pkgsel
mirror: https://mirror.example.org
download_retries: 5
gpg_keyrings:
  - /usr/share/pacman/keyrings/archlinux.gpg
`
