package goleveldb

import (
	"bytes"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/pkgsel/pkgsel/database"
)

type storage struct {
	path string
	db   *leveldb.DB
}

func (s *storage) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, database.ErrNotFound
	}
	return value, err
}

// Put stores value, unchanged records are not rewritten
func (s *storage) Put(key []byte, value []byte) error {
	old, err := s.db.Get(key, nil)
	switch {
	case err == nil && bytes.Equal(old, value):
		return nil
	case err != nil && err != leveldb.ErrNotFound:
		return err
	}
	return s.db.Put(key, value, nil)
}

func (s *storage) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

// KeysByPrefix returns copies of keys starting with prefix
func (s *storage) KeysByPrefix(prefix []byte) [][]byte {
	keys := [][]byte{}
	it := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()

	for it.Next() {
		keys = append(keys, append([]byte(nil), it.Key()...))
	}
	return keys
}

// ProcessByPrefix calls proc for every entry with key starting with prefix
//
// Key and value are only valid until proc returns.
func (s *storage) ProcessByPrefix(prefix []byte, proc database.StorageProcessor) error {
	it := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()

	for it.Next() {
		if err := proc(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	return it.Error()
}

func (s *storage) Open() (err error) {
	if s.db == nil {
		s.db, err = openOrRecover(s.path)
	}
	return
}

func (s *storage) Close() error {
	if s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	return db.Close()
}

func (s *storage) CreateBatch() database.Batch {
	return &batch{db: s.db}
}

// CompactDB merges all levels, dropping records removed by repo replacement
func (s *storage) CompactDB() error {
	return s.db.CompactRange(util.Range{})
}

var _ database.Storage = &storage{}
