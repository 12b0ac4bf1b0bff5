package tct

import (
	"fmt"

	"github.com/shielded-ledger/tct/common"
)

// frontierNode is a node on the frontier, the still-growing right edge of
// the tree. Implementations are frontierLeaf (the base of the recursion),
// frontierBranch (an internal node whose rightmost child, the focus, is
// still open), and sealedNode (a finalized subtree occupying its slot on
// the edge). Heights are not stored; every operation receives the height of
// its node, counted from the leaf level.
type frontierNode interface {

	// getHash computes the digest of this subtree, reusing and refreshing
	// the caches along the frontier.
	getHash(cfg Config, hasher common.TreeHasher, height uint8) common.Hash

	// cachedHash returns the digest only if it is available without any
	// recomputation.
	cachedHash() (common.Hash, bool)

	// isFull reports whether no further leaf fits beneath this node.
	isFull(cfg Config, height uint8) bool

	// position returns the subtree-relative index the next inserted leaf
	// would receive, or false if the subtree is full.
	position(cfg Config, height uint8) (uint64, bool)

	// insert pushes a new item onto the frontier beneath this node; the
	// item's root is at itemHeight. It reports false, leaving the subtree
	// untouched, if there is no room. There is no implicit finalization: a
	// full subtree stays exactly as it is.
	insert(cfg Config, hasher common.TreeHasher, height, itemHeight uint8, item frontierNode) bool

	// update applies f to the most recently inserted leaf, provided its
	// content is still live along the whole focus path.
	update(cfg Config, height uint8, f func(*common.Commitment)) bool

	// finalize seals this subtree into its complete form, consuming it.
	// Already-cached digests are never recomputed.
	finalize(cfg Config, hasher common.TreeHasher, height uint8) completeNode

	// witness collects the authentication path for the given
	// subtree-relative position, like its complete counterpart. It may
	// compute and cache digests of the frontier along the way.
	witness(cfg Config, hasher common.TreeHasher, height uint8, position uint64, path *AuthPath) (common.Commitment, bool)

	// forget discards the leaf content at the given subtree-relative
	// position while keeping its digest.
	forget(cfg Config, hasher common.TreeHasher, height uint8, position uint64) bool
}

// newFrontierPath wraps an item of the given height into a chain of
// single-child frontier branches reaching up to the target height.
func newFrontierPath(height, itemHeight uint8, item frontierNode) frontierNode {
	node := item
	for h := itemHeight; h < height; h++ {
		node = &frontierBranch{focus: node}
	}
	return node
}

// frontierLeaf is the most recently inserted commitment, either kept or
// recorded as its digest only. Its digest is computed lazily unless the
// content was discarded at insertion, in which case only the digest exists.
type frontierLeaf struct {
	commitment common.Commitment
	kept       bool
	digest     common.Hash
	hashed     bool
}

func newFrontierLeaf(commitment common.Commitment, retention Retention, hasher common.TreeHasher) *frontierLeaf {
	if retention == Discard {
		return &frontierLeaf{digest: hasher.HashLeaf(commitment), hashed: true}
	}
	return &frontierLeaf{commitment: commitment, kept: true}
}

func (n *frontierLeaf) getHash(cfg Config, hasher common.TreeHasher, height uint8) common.Hash {
	if !n.hashed {
		n.digest = hasher.HashLeaf(n.commitment)
		n.hashed = true
	}
	return n.digest
}

func (n *frontierLeaf) cachedHash() (common.Hash, bool) {
	return n.digest, n.hashed
}

func (n *frontierLeaf) isFull(Config, uint8) bool {
	return true
}

func (n *frontierLeaf) position(Config, uint8) (uint64, bool) {
	return 0, false
}

func (n *frontierLeaf) insert(Config, common.TreeHasher, uint8, uint8, frontierNode) bool {
	return false
}

func (n *frontierLeaf) update(cfg Config, height uint8, f func(*common.Commitment)) bool {
	if !n.kept {
		return false
	}
	f(&n.commitment)
	n.hashed = false
	return true
}

func (n *frontierLeaf) finalize(cfg Config, hasher common.TreeHasher, height uint8) completeNode {
	digest := n.getHash(cfg, hasher, height)
	if !n.kept {
		return hashNode(digest)
	}
	return &leafNode{commitment: n.commitment, digest: digest}
}

func (n *frontierLeaf) witness(cfg Config, hasher common.TreeHasher, height uint8, position uint64, path *AuthPath) (common.Commitment, bool) {
	if position != 0 || !n.kept {
		return common.Commitment{}, false
	}
	return n.commitment, true
}

func (n *frontierLeaf) forget(cfg Config, hasher common.TreeHasher, height uint8, position uint64) bool {
	if position != 0 || !n.kept {
		return false
	}
	n.getHash(cfg, hasher, height)
	n.kept = false
	n.commitment = common.Commitment{}
	return true
}

// sealedNode adapts a finalized subtree onto the frontier: it occupies its
// slot, accepts no further insertion, and serves witnesses from its
// complete representation. Sealing is always an explicit action; the engine
// never seals on its own.
type sealedNode struct {
	inner completeNode
}

func (n *sealedNode) getHash(Config, common.TreeHasher, uint8) common.Hash {
	return n.inner.hash()
}

func (n *sealedNode) cachedHash() (common.Hash, bool) {
	return n.inner.hash(), true
}

func (n *sealedNode) isFull(Config, uint8) bool {
	return true
}

func (n *sealedNode) position(Config, uint8) (uint64, bool) {
	return 0, false
}

func (n *sealedNode) insert(Config, common.TreeHasher, uint8, uint8, frontierNode) bool {
	return false
}

func (n *sealedNode) update(Config, uint8, func(*common.Commitment)) bool {
	return false
}

func (n *sealedNode) finalize(cfg Config, hasher common.TreeHasher, height uint8) completeNode {
	return n.inner
}

func (n *sealedNode) witness(cfg Config, hasher common.TreeHasher, height uint8, position uint64, path *AuthPath) (common.Commitment, bool) {
	return n.inner.witness(cfg, height, position, path)
}

func (n *sealedNode) forget(cfg Config, hasher common.TreeHasher, height uint8, position uint64) bool {
	switch inner := n.inner.(type) {
	case *branchNode:
		changed := inner.forget(cfg, height, position)
		if changed && !inner.isKept() {
			n.inner = hashNode(inner.digest)
		}
		return changed
	default:
		return false
	}
}

// frontierBranch is an internal node on the frontier. All children left of
// the focus are finalized; the focus is the open child the next insertion
// descends into. Children fill strictly left to right, so nothing right of
// the focus is ever occupied.
type frontierBranch struct {
	siblings []completeNode // finalized children, left to right
	focus    frontierNode   // the open rightmost child

	// digest caches the current hash of this node; mutation beneath
	// invalidates it.
	digest common.Hash
	hashed bool
}

func (n *frontierBranch) getHash(cfg Config, hasher common.TreeHasher, height uint8) common.Hash {
	if n.hashed {
		return n.digest
	}
	children := make([]common.Hash, 0, cfg.Arity)
	for _, sibling := range n.siblings {
		children = append(children, sibling.hash())
	}
	children = append(children, n.focus.getHash(cfg, hasher, height-1))
	for len(children) < cfg.Arity {
		children = append(children, common.ZeroHash)
	}
	n.digest = hasher.HashNode(height, children)
	n.hashed = true
	return n.digest
}

func (n *frontierBranch) cachedHash() (common.Hash, bool) {
	return n.digest, n.hashed
}

func (n *frontierBranch) isFull(cfg Config, height uint8) bool {
	return len(n.siblings)+1 == cfg.Arity && n.focus.isFull(cfg, height-1)
}

func (n *frontierBranch) position(cfg Config, height uint8) (uint64, bool) {
	childCapacity := cfg.subtreeCapacity(height - 1)
	if p, ok := n.focus.position(cfg, height-1); ok {
		return uint64(len(n.siblings))*childCapacity + p, true
	}
	if len(n.siblings)+1 < cfg.Arity {
		return uint64(len(n.siblings)+1) * childCapacity, true
	}
	return 0, false
}

func (n *frontierBranch) insert(cfg Config, hasher common.TreeHasher, height, itemHeight uint8, item frontierNode) bool {
	// Push through the focus first; "not full" is defined as "insertion
	// there succeeds".
	if height-1 > itemHeight {
		if n.focus.insert(cfg, hasher, height-1, itemHeight, item) {
			n.hashed = false
			return true
		}
	}
	if len(n.siblings)+1 >= cfg.Arity {
		return false
	}
	n.siblings = append(n.siblings, n.focus.finalize(cfg, hasher, height-1))
	n.focus = newFrontierPath(height-1, itemHeight, item)
	n.hashed = false
	return true
}

func (n *frontierBranch) update(cfg Config, height uint8, f func(*common.Commitment)) bool {
	if !n.focus.update(cfg, height-1, f) {
		return false
	}
	n.hashed = false
	return true
}

func (n *frontierBranch) finalize(cfg Config, hasher common.TreeHasher, height uint8) completeNode {
	digest := n.getHash(cfg, hasher, height)
	children := make([]completeNode, 0, len(n.siblings)+1)
	children = append(children, n.siblings...)
	children = append(children, n.focus.finalize(cfg, hasher, height-1))
	return &branchNode{children: children, digest: digest}
}

func (n *frontierBranch) witness(cfg Config, hasher common.TreeHasher, height uint8, position uint64, path *AuthPath) (common.Commitment, bool) {
	childCapacity := cfg.subtreeCapacity(height - 1)
	index := int(position / childCapacity)
	if index > len(n.siblings) {
		return common.Commitment{}, false
	}
	var commitment common.Commitment
	var ok bool
	if index < len(n.siblings) {
		commitment, ok = n.siblings[index].witness(cfg, height-1, position%childCapacity, path)
	} else {
		commitment, ok = n.focus.witness(cfg, hasher, height-1, position%childCapacity, path)
	}
	if !ok {
		return common.Commitment{}, false
	}
	siblings := make([]common.Hash, 0, cfg.Arity-1)
	for i := 0; i < cfg.Arity; i++ {
		switch {
		case i == index:
			continue
		case i < len(n.siblings):
			siblings = append(siblings, n.siblings[i].hash())
		case i == len(n.siblings):
			siblings = append(siblings, n.focus.getHash(cfg, hasher, height-1))
		default:
			siblings = append(siblings, common.ZeroHash)
		}
	}
	path.appendLevel(height, siblings)
	return commitment, true
}

func (n *frontierBranch) forget(cfg Config, hasher common.TreeHasher, height uint8, position uint64) bool {
	childCapacity := cfg.subtreeCapacity(height - 1)
	index := int(position / childCapacity)
	if index > len(n.siblings) {
		return false
	}
	if index == len(n.siblings) {
		return n.focus.forget(cfg, hasher, height-1, position%childCapacity)
	}
	return forgetInChild(cfg, n.siblings, index, height-1, position%childCapacity)
}

// sealAt finalizes the open subtree whose root sits at sealHeight on the
// focus path, returning its root hash. It reports false if there is no open
// subtree at that height, i.e. the focus path ends in an already sealed or
// hash-only node at or above it.
func (n *frontierBranch) sealAt(cfg Config, hasher common.TreeHasher, height, sealHeight uint8) (common.Hash, bool) {
	if height == sealHeight+1 {
		focus, ok := n.focus.(*frontierBranch)
		if !ok {
			return common.Hash{}, false
		}
		root := focus.getHash(cfg, hasher, sealHeight)
		n.focus = &sealedNode{inner: focus.finalize(cfg, hasher, sealHeight)}
		return root, true
	}
	child, ok := n.focus.(*frontierBranch)
	if !ok {
		return common.Hash{}, false
	}
	return child.sealAt(cfg, hasher, height-1, sealHeight)
}

// checkFrontierInvariant panics if a node reports contradicting states;
// this indicates a bug in the engine, not a usage error.
func checkFrontierInvariant(cfg Config, node frontierNode, height uint8) {
	_, open := node.position(cfg, height)
	if open == node.isFull(cfg, height) {
		panic(fmt.Sprintf("frontier node at height %d is both full and open", height))
	}
}
