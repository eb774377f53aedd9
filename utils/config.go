package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DisposaBoy/JsonConfigReader"
	yaml "gopkg.in/yaml.v3"
)

// ConfigStructure is structure of main configuration
type ConfigStructure struct { // nolint: maligned
	// General
	RootDir   string `json:"rootDir"                       yaml:"root_dir"`
	LogLevel  string `json:"logLevel"                      yaml:"log_level"`
	LogFormat string `json:"logFormat"                     yaml:"log_format"`

	// Catalog
	Mirror         string   `json:"mirror"                        yaml:"mirror"`
	Repos          []string `json:"repos"                         yaml:"repos"`
	Architecture   string   `json:"architecture"                  yaml:"architecture"`
	TagsDir        string   `json:"tagsDir"                       yaml:"tags_dir"`
	CategoriesFile string   `json:"categoriesFile"                yaml:"categories_file"`

	// Downloading
	DownloadRetries int   `json:"downloadRetries"               yaml:"download_retries"`
	DownloadLimit   int64 `json:"downloadSpeedLimit"            yaml:"download_limit"`

	// Signature verification
	GpgDisableVerify bool     `json:"gpgDisableVerify"              yaml:"gpg_disable_verify"`
	GpgKeyrings      []string `json:"gpgKeyrings"                   yaml:"gpg_keyrings"`

	// Query evaluation
	MatchMode   string `json:"matchMode"                     yaml:"match_mode"`
	EvalWorkers int    `json:"evalWorkers"                   yaml:"eval_workers"`

	// Server
	EnableMetricsEndpoint bool `json:"enableMetricsEndpoint"         yaml:"enable_metrics_endpoint"`
}

// Config is configuration for pkgsel, shared by all modules
var Config = ConfigStructure{
	RootDir:               filepath.Join(os.Getenv("HOME"), ".pkgsel"),
	LogLevel:              "info",
	LogFormat:             "default",
	Mirror:                "https://geo.mirror.pkgbuild.com",
	Repos:                 []string{"core", "extra"},
	Architecture:          "x86_64",
	TagsDir:               "",
	CategoriesFile:        "",
	DownloadRetries:       3,
	DownloadLimit:         0,
	GpgDisableVerify:      false,
	GpgKeyrings:           []string{},
	MatchMode:             "exact",
	EvalWorkers:           4,
	EnableMetricsEndpoint: false,
}

// LoadConfig loads configuration from json file, falling back to yaml
func LoadConfig(filename string, config *ConfigStructure) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	decJSON := json.NewDecoder(JsonConfigReader.New(f))
	if err = decJSON.Decode(&config); err != nil {
		_, _ = f.Seek(0, 0)
		decYAML := yaml.NewDecoder(f)
		if err2 := decYAML.Decode(&config); err2 != nil {
			err = fmt.Errorf("invalid yaml (%s) or json (%s)", err2, err)
		} else {
			err = nil
		}
	}
	return err
}

// SaveConfig write configuration to json file
func SaveConfig(filename string, config *ConfigStructure) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	encoded, err := json.MarshalIndent(&config, "", "  ")
	if err != nil {
		return err
	}

	_, err = f.Write(encoded)
	return err
}

// MarshalYAMLDocument renders configuration as yaml document
func (conf *ConfigStructure) MarshalYAMLDocument() ([]byte, error) {
	yamlData, err := yaml.Marshal(conf)
	if err != nil {
		return nil, fmt.Errorf("error marshaling to YAML: %s", err)
	}
	return yamlData, nil
}

// GetRootDir returns the RootDir with expanded ~ as home directory
func (conf *ConfigStructure) GetRootDir() string {
	return strings.Replace(conf.RootDir, "~", os.Getenv("HOME"), 1)
}

// GetTagsDir returns directory with per-package tag files
func (conf *ConfigStructure) GetTagsDir() string {
	if conf.TagsDir == "" {
		return filepath.Join(conf.GetRootDir(), "tags")
	}
	return strings.Replace(conf.TagsDir, "~", os.Getenv("HOME"), 1)
}

// GetCategoriesFile returns path to the category index
func (conf *ConfigStructure) GetCategoriesFile() string {
	if conf.CategoriesFile == "" {
		return filepath.Join(conf.GetRootDir(), "categories.yaml")
	}
	return strings.Replace(conf.CategoriesFile, "~", os.Getenv("HOME"), 1)
}
