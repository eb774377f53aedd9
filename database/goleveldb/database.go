// Package goleveldb implements database.Storage on top of LevelDB
package goleveldb

import (
	"github.com/rs/zerolog/log"
	"github.com/syndtr/goleveldb/leveldb"
	leveldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/pkgsel/pkgsel/database"
)

var options = &opt.Options{
	Filter:                 filter.NewBloomFilter(10),
	OpenFilesCacheCapacity: 256,
}

// openOrRecover opens LevelDB at path, rebuilding its manifest from table files when it is corrupted
func openOrRecover(path string) (*leveldb.DB, error) {
	db, err := leveldb.OpenFile(path, options)
	if err == nil || !leveldberrors.IsCorrupted(err) {
		return db, err
	}

	log.Warn().Err(err).Str("path", path).Msg("catalog database is corrupted, recovering")

	stor, err := leveldbstorage.OpenFile(path, false)
	if err != nil {
		return nil, err
	}
	db, err = leveldb.Recover(stor, options)
	if err != nil {
		stor.Close()
		return nil, err
	}
	db.Close()
	stor.Close()

	return leveldb.OpenFile(path, options)
}

// NewDB creates new instance of DB, but doesn't open it (yet)
func NewDB(path string) database.Storage {
	return &storage{path: path}
}

// NewOpenDB creates new instance of DB and opens it
func NewOpenDB(path string) (database.Storage, error) {
	db := NewDB(path)
	return db, db.Open()
}
