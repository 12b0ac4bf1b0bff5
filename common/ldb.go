package common

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDB is the subset of leveldb operations the storage collaborator
// relies on. It is satisfied by both transactional and non-transactional
// leveldb instances, allowing transparent switching between them.
type LevelDB interface {

	// Get gets the value for the given key. It returns ErrNotFound if the
	// DB does not contain the key. The returned slice is its own copy.
	Get(key []byte, ro *opt.ReadOptions) (value []byte, err error)

	// Has returns true if the DB does contain the given key.
	Has(key []byte, ro *opt.ReadOptions) (bool, error)

	// Put sets the value for the given key. It overwrites any previous value
	// for that key; a DB is not a multi-map.
	Put(key, value []byte, wo *opt.WriteOptions) error

	// Delete deletes the value for the given key.
	Delete(key []byte, wo *opt.WriteOptions) error

	// Write applies the given batch to the DB. The batch records will be
	// applied sequentially.
	Write(batch *leveldb.Batch, wo *opt.WriteOptions) error
}
