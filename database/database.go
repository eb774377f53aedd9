// Package database provides KV database for the package catalog
package database

import "errors"

// ErrNotFound is returned by Get for missing keys
var ErrNotFound = errors.New("key not found")

// StorageProcessor handles single key/value pair during prefix scan
type StorageProcessor func(key []byte, value []byte) error

// Reader fetches single values
type Reader interface {
	Get(key []byte) ([]byte, error)
}

// PrefixReader scans key ranges
//
// Entries are always visited in key order.
type PrefixReader interface {
	ProcessByPrefix(prefix []byte, proc StorageProcessor) error
	KeysByPrefix(prefix []byte) [][]byte
}

// Writer modifies values
type Writer interface {
	Put(key []byte, value []byte) error
	Delete(key []byte) error
}

// Storage is the record store backing a catalog
type Storage interface {
	Reader
	Writer
	PrefixReader
	CreateBatch() Batch
	Open() error
	Close() error
	CompactDB() error
}

// Batch collects writes which are applied atomically
type Batch interface {
	Writer
	// Write applies collected writes
	Write() error
}
