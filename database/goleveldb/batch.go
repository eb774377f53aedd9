package goleveldb

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/pkgsel/pkgsel/database"
)

// batch wraps leveldb.Batch, nothing is visible until Write
type batch struct {
	db      *leveldb.DB
	pending leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.pending.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.pending.Delete(key)
	return nil
}

func (b *batch) Write() error {
	return b.db.Write(&b.pending, nil)
}

var _ database.Batch = &batch{}
