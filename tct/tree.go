package tct

import (
	"fmt"

	"github.com/shielded-ledger/tct/common"
)

// Tree is the full three-tier accumulator of a shielded ledger: commitments
// are tiered into blocks, blocks into epochs, epochs into the tree. It is
// the outermost of the three instantiations of the tier engine; Block and
// Epoch are the other two.
type Tree struct {
	top *Top
}

// NewTree creates an empty tree of the default shape.
func NewTree(algorithm common.HashAlgorithm) *Tree {
	tree, err := NewTreeWithConfig(DefaultConfig, algorithm)
	if err != nil {
		panic(fmt.Sprintf("default configuration rejected: %v", err))
	}
	return tree
}

// NewTreeWithConfig creates an empty tree of a custom three-tier shape.
func NewTreeWithConfig(cfg Config, algorithm common.HashAlgorithm) (*Tree, error) {
	if len(cfg.TierDepths) != 3 {
		return nil, fmt.Errorf("a tree has exactly 3 tiers, got %d", len(cfg.TierDepths))
	}
	top, err := NewTop(cfg, algorithm)
	if err != nil {
		return nil, err
	}
	return &Tree{top: top}, nil
}

// Config returns the shape of this tree.
func (t *Tree) Config() Config {
	return t.top.Config()
}

// Insert appends a commitment to the currently open block at the next
// position. See Top.Insert for the full-tree behavior.
func (t *Tree) Insert(commitment common.Commitment, retention Retention) error {
	return t.top.Insert(commitment, retention)
}

// Update applies f to the most recently inserted commitment in place, e.g.
// to attach auxiliary data before the next insertion seals it.
func (t *Tree) Update(f func(*common.Commitment)) bool {
	return t.top.Update(f)
}

// Position returns the position the next insertion would receive, or false
// if the tree is full.
func (t *Tree) Position() (uint64, bool) {
	return t.top.Position()
}

// IsEmpty reports whether nothing was ever inserted.
func (t *Tree) IsEmpty() bool {
	return t.top.IsEmpty()
}

// IsFull reports whether no further commitment can be inserted.
func (t *Tree) IsFull() bool {
	return t.top.IsFull()
}

// Root computes the root hash of the whole tree.
func (t *Tree) Root() common.Hash {
	return t.top.Root()
}

// CachedRoot returns the root hash only if no recomputation is needed.
func (t *Tree) CachedRoot() (common.Hash, bool) {
	return t.top.CachedRoot()
}

// Witness produces the inclusion proof for the commitment at the given
// position.
func (t *Tree) Witness(position uint64) (Proof, bool) {
	return t.top.Witness(position)
}

// Forget discards the commitment at the given position while keeping its
// digest, so memory stays bounded once a witness is no longer needed.
func (t *Tree) Forget(position uint64) bool {
	return t.top.Forget(position)
}

// EndBlock finalizes the currently open block and returns its root; the
// next insertion opens the following block, and positions jump to its
// start. If no block is open, an empty finalized block is recorded.
func (t *Tree) EndBlock() (common.Hash, error) {
	return t.top.sealTier(0)
}

// EndEpoch finalizes the currently open epoch, including its open block,
// and returns the epoch root. If no epoch is open, an empty finalized epoch
// is recorded.
func (t *Tree) EndEpoch() (common.Hash, error) {
	return t.top.sealTier(1)
}

// InsertBlockRoot appends a block by root hash only. Commitments within it
// can never be witnessed from this tree; use InsertBlock to retain them.
func (t *Tree) InsertBlockRoot(root common.Hash) error {
	return t.top.insertItem(&sealedNode{inner: hashNode(root)}, t.top.cfg.tierHeight(0))
}

// InsertEpochRoot appends an epoch by root hash only.
func (t *Tree) InsertEpochRoot(root common.Hash) error {
	return t.top.insertItem(&sealedNode{inner: hashNode(root)}, t.top.cfg.tierHeight(1))
}

// InsertBlock appends a finalized block built outside the tree, retaining
// its kept commitments so their witnesses remain available here.
func (t *Tree) InsertBlock(block *FinalizedBlock) error {
	if err := checkSubShape(t.top.cfg, block.inner.cfg, 1); err != nil {
		return err
	}
	return t.top.insertItem(&sealedNode{inner: block.inner.root}, t.top.cfg.tierHeight(0))
}

// InsertEpoch appends a finalized epoch built outside the tree, retaining
// its kept commitments.
func (t *Tree) InsertEpoch(epoch *FinalizedEpoch) error {
	if err := checkSubShape(t.top.cfg, epoch.inner.cfg, 2); err != nil {
		return err
	}
	return t.top.insertItem(&sealedNode{inner: epoch.inner.root}, t.top.cfg.tierHeight(1))
}

// checkSubShape verifies that a subtree built standalone with sub shares the
// inner tiers of the enclosing shape, so digests line up.
func checkSubShape(cfg, sub Config, tiers int) error {
	if sub.Arity != cfg.Arity || len(sub.TierDepths) != tiers {
		return common.ErrShapeMismatch
	}
	for i := 0; i < tiers; i++ {
		if sub.TierDepths[i] != cfg.TierDepths[i] {
			return common.ErrShapeMismatch
		}
	}
	return nil
}

// subConfig is the shape of the innermost tiers of cfg.
func subConfig(cfg Config, tiers int) Config {
	return Config{Arity: cfg.Arity, TierDepths: cfg.TierDepths[:tiers]}
}

// Block incrementally builds a single block outside the main tree, e.g.
// while assembling the commitments of one block before committing it. It is
// the one-tier instantiation of the tier engine.
type Block struct {
	top *Top
}

// NewBlock creates an empty block builder matching the innermost tier of
// the given tree shape.
func NewBlock(cfg Config, algorithm common.HashAlgorithm) (*Block, error) {
	top, err := NewTop(subConfig(cfg, 1), algorithm)
	if err != nil {
		return nil, err
	}
	return &Block{top: top}, nil
}

// Insert appends a commitment to the block.
func (b *Block) Insert(commitment common.Commitment, retention Retention) error {
	return b.top.Insert(commitment, retention)
}

// Position returns the position the next insertion would receive, or false
// if the block is full.
func (b *Block) Position() (uint64, bool) {
	return b.top.Position()
}

// Root computes the block's root hash.
func (b *Block) Root() common.Hash {
	return b.top.Root()
}

// Witness produces the block-relative inclusion proof for a position.
func (b *Block) Witness(position uint64) (Proof, bool) {
	return b.top.Witness(position)
}

// Finalize seals the block, consuming the builder.
func (b *Block) Finalize() *FinalizedBlock {
	return &FinalizedBlock{inner: b.top.Finalize()}
}

// FinalizedBlock is an immutable block ready to be inserted into a tree.
type FinalizedBlock struct {
	inner *Finalized
}

// Root returns the block's root hash.
func (b *FinalizedBlock) Root() common.Hash {
	return b.inner.Root()
}

// Epoch incrementally builds a single epoch outside the main tree: the
// two-tier instantiation of the tier engine.
type Epoch struct {
	top *Top
}

// NewEpoch creates an empty epoch builder matching the two innermost tiers
// of the given tree shape.
func NewEpoch(cfg Config, algorithm common.HashAlgorithm) (*Epoch, error) {
	top, err := NewTop(subConfig(cfg, 2), algorithm)
	if err != nil {
		return nil, err
	}
	return &Epoch{top: top}, nil
}

// Insert appends a commitment to the epoch's currently open block.
func (e *Epoch) Insert(commitment common.Commitment, retention Retention) error {
	return e.top.Insert(commitment, retention)
}

// EndBlock finalizes the epoch's currently open block and returns its root.
func (e *Epoch) EndBlock() (common.Hash, error) {
	return e.top.sealTier(0)
}

// Position returns the position the next insertion would receive, or false
// if the epoch is full.
func (e *Epoch) Position() (uint64, bool) {
	return e.top.Position()
}

// Root computes the epoch's root hash.
func (e *Epoch) Root() common.Hash {
	return e.top.Root()
}

// Witness produces the epoch-relative inclusion proof for a position.
func (e *Epoch) Witness(position uint64) (Proof, bool) {
	return e.top.Witness(position)
}

// Finalize seals the epoch, consuming the builder.
func (e *Epoch) Finalize() *FinalizedEpoch {
	return &FinalizedEpoch{inner: e.top.Finalize()}
}

// FinalizedEpoch is an immutable epoch ready to be inserted into a tree.
type FinalizedEpoch struct {
	inner *Finalized
}

// Root returns the epoch's root hash.
func (e *FinalizedEpoch) Root() common.Hash {
	return e.inner.Root()
}

// Witness produces the epoch-relative inclusion proof for a position.
func (e *FinalizedEpoch) Witness(position uint64) (Proof, bool) {
	return e.inner.Witness(position)
}
