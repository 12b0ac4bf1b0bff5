package tct

import (
	"fmt"

	"github.com/shielded-ledger/tct/common"
)

// Retention selects what an inserted commitment leaves behind.
type Retention uint8

const (
	// Keep retains the commitment so it can later be witnessed (and
	// eventually forgotten).
	Keep Retention = iota
	// Discard records only the digest; the commitment can never be
	// witnessed or updated. Equivalent to inserting and immediately
	// forgetting, without ever holding the content.
	Discard
)

// Top is the top-level frontier of one accumulator level. It distinguishes
// the never-used state, which reports the reserved empty-container hash,
// from every non-empty state. A Top is not safe for concurrent mutation;
// callers synchronize externally, single writer.
type Top struct {
	cfg    Config
	hasher common.TreeHasher
	root   frontierNode // nil while nothing was ever inserted
}

// NewTop creates an empty accumulator of the given shape and hash algorithm.
func NewTop(cfg Config, algorithm common.HashAlgorithm) (*Top, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return &Top{cfg: cfg, hasher: algorithm.CreateHasher()}, nil
}

// Config returns the shape of this accumulator.
func (t *Top) Config() Config {
	return t.cfg
}

// Insert appends a commitment at the next position. It returns ErrFull,
// leaving the tree untouched and the commitment with the caller, if every
// leaf slot is taken; there is no implicit finalization.
func (t *Top) Insert(commitment common.Commitment, retention Retention) error {
	return t.insertItem(newFrontierLeaf(commitment, retention, t.hasher), 0)
}

// insertItem places an item whose root is at itemHeight onto the frontier.
func (t *Top) insertItem(item frontierNode, itemHeight uint8) error {
	height := t.cfg.totalHeight()
	if itemHeight >= height {
		panic(fmt.Sprintf("item height %d does not fit beneath a tree of height %d", itemHeight, height))
	}
	if t.root == nil {
		t.root = newFrontierPath(height, itemHeight, item)
	} else if !t.root.insert(t.cfg, t.hasher, height, itemHeight, item) {
		return common.ErrFull
	}
	checkFrontierInvariant(t.cfg, t.root, height)
	return nil
}

// Update applies f to the most recently inserted commitment in place. It
// reports false if the tree is empty or the focused commitment is no longer
// live.
func (t *Top) Update(f func(*common.Commitment)) bool {
	if t.root == nil {
		return false
	}
	return t.root.update(t.cfg, t.cfg.totalHeight(), f)
}

// Position returns the position the next insertion would receive, or false
// if the tree is full. A freshly created tree reports position 0.
func (t *Top) Position() (uint64, bool) {
	if t.root == nil {
		return 0, true
	}
	return t.root.position(t.cfg, t.cfg.totalHeight())
}

// IsEmpty reports whether nothing was ever inserted.
func (t *Top) IsEmpty() bool {
	return t.root == nil
}

// IsFull reports whether no further commitment can be inserted.
func (t *Top) IsFull() bool {
	if t.root == nil {
		return false
	}
	return t.root.isFull(t.cfg, t.cfg.totalHeight())
}

// Root computes the root hash, reusing every cached digest along the
// frontier. The empty tree reports the reserved empty-container hash.
func (t *Top) Root() common.Hash {
	if t.root == nil {
		return common.OneHash
	}
	return t.root.getHash(t.cfg, t.hasher, t.cfg.totalHeight())
}

// CachedRoot returns the root hash only if it is available without any
// recomputation.
func (t *Top) CachedRoot() (common.Hash, bool) {
	if t.root == nil {
		return common.OneHash, true
	}
	return t.root.cachedHash()
}

// Witness produces the inclusion proof for the commitment at the given
// position. It reports false if the position is out of range or the content
// needed for the proof has been forgotten.
func (t *Top) Witness(position uint64) (Proof, bool) {
	if t.root == nil {
		return Proof{}, false
	}
	var path AuthPath
	commitment, ok := t.root.witness(t.cfg, t.hasher, t.cfg.totalHeight(), position, &path)
	if !ok {
		return Proof{}, false
	}
	return Proof{Position: position, Commitment: commitment, Path: path}, true
}

// Forget discards the commitment at the given position while keeping its
// digest; no root hash changes and other positions stay witnessable. It
// reports whether anything changed.
func (t *Top) Forget(position uint64) bool {
	if t.root == nil {
		return false
	}
	return t.root.forget(t.cfg, t.hasher, t.cfg.totalHeight(), position)
}

// sealTier finalizes the open subtree of tier index i on the frontier and
// returns its root. If no such subtree is open, an empty finalized one is
// recorded instead, occupying the tier's position range.
func (t *Top) sealTier(i int) (common.Hash, error) {
	sealHeight := t.cfg.tierHeight(i)
	// A root that is no longer a frontier branch (finalized or full) falls
	// through to the insert below, which reports ErrFull.
	if root, ok := t.root.(*frontierBranch); ok {
		if hash, sealed := root.sealAt(t.cfg, t.hasher, t.cfg.totalHeight(), sealHeight); sealed {
			return hash, nil
		}
	}
	// An empty tier finalizes to the empty-container hash of its level.
	if err := t.insertItem(&sealedNode{inner: hashNode(common.OneHash)}, sealHeight); err != nil {
		return common.Hash{}, err
	}
	return common.OneHash, nil
}

// Finalize seals the whole accumulator, consuming the frontier: the handle
// stays valid for hashing, witnessing and forgetting, but accepts no
// further insertion. The returned form is immutable except for leaf-granular
// forgetting.
func (t *Top) Finalize() *Finalized {
	if t.root == nil {
		t.root = &sealedNode{inner: hashNode(common.OneHash)}
		return &Finalized{cfg: t.cfg, root: hashNode(common.OneHash)}
	}
	root := t.root.finalize(t.cfg, t.hasher, t.cfg.totalHeight())
	t.root = &sealedNode{inner: root}
	return &Finalized{cfg: t.cfg, root: root}
}

// Finalized is an immutable, fully hashed accumulator produced by
// finalizing a frontier. Its root is cached; forgetting narrows its content
// but never changes a digest.
type Finalized struct {
	cfg  Config
	root completeNode
}

// Root returns the root hash cached at finalization.
func (f *Finalized) Root() common.Hash {
	return f.root.hash()
}

// Witness produces the inclusion proof for the commitment at the given
// position, like Top.Witness.
func (f *Finalized) Witness(position uint64) (Proof, bool) {
	var path AuthPath
	commitment, ok := f.root.witness(f.cfg, f.cfg.totalHeight(), position, &path)
	if !ok {
		return Proof{}, false
	}
	return Proof{Position: position, Commitment: commitment, Path: path}, true
}

// Forget discards the commitment at the given position while keeping its
// digest.
func (f *Finalized) Forget(position uint64) bool {
	switch root := f.root.(type) {
	case *branchNode:
		changed := root.forget(f.cfg, f.cfg.totalHeight(), position)
		if changed && !root.isKept() {
			f.root = hashNode(root.digest)
		}
		return changed
	default:
		return false
	}
}
