package storage

import (
	"github.com/shielded-ledger/tct/common"
	"github.com/shielded-ledger/tct/tct"
)

// Store persists accumulators keyed by an application-chosen identifier,
// e.g. the ledger height at which the state was captured. Each PutTree
// replaces any previous state under the same identifier atomically; the
// current root hash is stored alongside so it can be looked up without
// decoding the whole tree.
type Store interface {

	// PutTree persists the tree under the given identifier, together with
	// its current root.
	PutTree(id uint64, tree *tct.Tree) error

	// GetTree loads the tree stored under the given identifier and attaches
	// the hash algorithm it was built with. It returns ErrNotFound if
	// nothing is stored.
	GetTree(id uint64, algorithm common.HashAlgorithm) (*tct.Tree, error)

	// GetRoot returns the root recorded by the last PutTree for the given
	// identifier without decoding the tree. It returns ErrNotFound if
	// nothing is stored.
	GetRoot(id uint64) (common.Hash, error)

	// HasTree returns true if a tree is stored under the given identifier.
	HasTree(id uint64) (bool, error)

	// DeleteTree removes the tree and root stored under the given
	// identifier, if any.
	DeleteTree(id uint64) error
}
