package catalog

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/saracen/walker"
)

// ParseTags reads tag file: one tag per line, '#' starts comment, blank lines ignored
func ParseTags(r io.Reader) ([]string, error) {
	var tags []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			tags = append(tags, line)
		}
	}

	return tags, scanner.Err()
}

// TagStore keeps user tags as one file per package in a directory
type TagStore struct {
	dir string
	mu  sync.Mutex
}

// NewTagStore creates tag store over directory, directory is created on first write
func NewTagStore(dir string) *TagStore {
	return &TagStore{dir: dir}
}

func (s *TagStore) path(name string) (string, error) {
	if name == "" || strings.ContainsRune(name, filepath.Separator) || strings.HasPrefix(name, ".") {
		return "", errors.Errorf("invalid package name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

func readTagFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	tags, err := ParseTags(f)
	return tags, errors.Wrapf(err, "error reading tags from %s", path)
}

// Tags returns tags of package, missing file means no tags
func (s *TagStore) Tags(name string) ([]string, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return readTagFile(path)
}

// LoadAll reads tags of every package in the directory
//
// Hidden files and nested directories are skipped.
func (s *TagStore) LoadAll() (map[string][]string, error) {
	result := map[string][]string{}

	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return result, nil
	}

	var mu sync.Mutex
	err := walker.Walk(s.dir, func(path string, info os.FileInfo) error {
		if info.IsDir() {
			if path != s.dir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") || filepath.Dir(path) != filepath.Clean(s.dir) {
			return nil
		}

		tags, err := readTagFile(path)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			mu.Lock()
			result[info.Name()] = tags
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load tags from %s", s.dir)
	}

	return result, nil
}

func (s *TagStore) write(path string, tags []string) error {
	if len(tags) == 0 {
		err := os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	if err := os.MkdirAll(s.dir, 0777); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(strings.Join(tags, "\n")+"\n"), 0644)
}

// Add appends tags to package, tags already present are not duplicated
func (s *TagStore) Add(name string, tags ...string) ([]string, error) {
	return s.modify(name, func(current []string) []string {
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if tag != "" && !hasValue(current, tag) {
				current = append(current, tag)
			}
		}
		return current
	})
}

// Remove deletes tags from package, file is removed when no tags are left
func (s *TagStore) Remove(name string, tags ...string) ([]string, error) {
	return s.modify(name, func(current []string) []string {
		result := current[:0]
		for _, tag := range current {
			if !hasValue(tags, tag) {
				result = append(result, tag)
			}
		}
		return result
	})
}

func (s *TagStore) modify(name string, change func([]string) []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	current, err := readTagFile(path)
	if err != nil {
		return nil, err
	}

	updated := change(current)
	if err = s.write(path, updated); err != nil {
		return nil, errors.Wrapf(err, "unable to save tags of %s", name)
	}
	return updated, nil
}
