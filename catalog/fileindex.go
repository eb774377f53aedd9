package catalog

import (
	"os"
	"sync"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/ugorji/go/codec"
)

// FileIndexProvider resolves file attribute for a record
type FileIndexProvider interface {
	// Files returns paths owned by package name
	Files(name string) []string
}

// FileIndex maps package name to paths of its files
type FileIndex map[string][]string

// Files returns paths owned by package name
func (idx FileIndex) Files(name string) []string {
	return idx[name]
}

// Merge copies entries of other index, replacing existing ones
func (idx FileIndex) Merge(other FileIndex) {
	for name, files := range other {
		idx[name] = files
	}
}

// FileIndexLoader loads file index from its source
type FileIndexLoader func() (FileIndex, error)

// LazyFileIndex loads index on first use and keeps it for the rest of the process
type LazyFileIndex struct {
	once   sync.Once
	loader FileIndexLoader
	index  FileIndex
	err    error
}

// Check interface
var (
	_ FileIndexProvider = FileIndex{}
	_ FileIndexProvider = &LazyFileIndex{}
)

// NewLazyFileIndex creates provider which calls loader at most once
func NewLazyFileIndex(loader FileIndexLoader) *LazyFileIndex {
	return &LazyFileIndex{loader: loader}
}

func (l *LazyFileIndex) load() {
	l.index, l.err = l.loader()
	if l.err != nil {
		l.index = FileIndex{}
		log.Warn().Err(l.err).Msg("unable to load file index, file attribute won't match")
		return
	}
	log.Debug().Int("packages", len(l.index)).Msg("file index loaded")
}

// Load forces loading of the index, returning load error if any
func (l *LazyFileIndex) Load() error {
	l.once.Do(l.load)
	return l.err
}

// Files returns paths owned by package name, loading index if required
func (l *LazyFileIndex) Files(name string) []string {
	l.once.Do(l.load)
	return l.index[name]
}

// FileIndexFromFile returns loader reading index saved by SaveFileIndex
//
// Missing file results in empty index.
func FileIndexFromFile(path string) FileIndexLoader {
	return func() (FileIndex, error) {
		idx, err := LoadFileIndex(path)
		if err != nil && os.IsNotExist(errors.Cause(err)) {
			log.Info().Str("path", path).Msg("file index is not built yet")
			return FileIndex{}, nil
		}
		return idx, err
	}
}

// SaveFileIndex writes index as compressed msgpack
func SaveFileIndex(path string, idx FileIndex) error {
	tempPath := path + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return errors.Wrap(err, "unable to save file index")
	}

	gz := pgzip.NewWriter(f)
	err = codec.NewEncoder(gz, &codec.MsgpackHandle{}).Encode(idx)
	if err == nil {
		err = gz.Close()
	}
	if err2 := f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrapf(err, "unable to save file index %s", path)
	}

	return errors.Wrap(os.Rename(tempPath, path), "unable to save file index")
}

// LoadFileIndex reads index saved by SaveFileIndex
func LoadFileIndex(path string) (FileIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load file index")
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load file index %s", path)
	}
	defer gz.Close()

	idx := FileIndex{}
	if err = codec.NewDecoder(gz, &codec.MsgpackHandle{}).Decode(&idx); err != nil {
		return nil, errors.Wrapf(err, "unable to load file index %s", path)
	}

	return idx, nil
}
