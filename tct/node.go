package tct

import (
	"fmt"

	"github.com/shielded-ledger/tct/common"
)

// completeNode is a node of a finalized subtree. A node is either kept (its
// content is live in memory) or hash-only (only its digest survives); the
// variants below enumerate the cases the way the frontier enumerates its own.
// Every variant answers its digest in O(1); digests are fixed at
// construction and forgetting never changes them.
type completeNode interface {

	// hash returns the digest cached at construction time.
	hash() common.Hash

	// witness collects the authentication path for the given
	// subtree-relative position, appending one level of sibling digests per
	// descent step, leaf level first. It reports false if the position is
	// out of range or content on the path has been forgotten.
	witness(cfg Config, height uint8, position uint64, path *AuthPath) (common.Commitment, bool)

	// forget discards the leaf content at the given subtree-relative
	// position while keeping its digest. It reports whether anything
	// changed.
	forget(cfg Config, height uint8, position uint64) bool

	// isKept reports whether any live content remains at or beneath this
	// node.
	isKept() bool
}

// hashNode is a subtree reduced to its digest. Content beneath it is
// unrecoverable; the transition into this variant is one-way.
type hashNode common.Hash

func (n hashNode) hash() common.Hash {
	return common.Hash(n)
}

func (n hashNode) witness(Config, uint8, uint64, *AuthPath) (common.Commitment, bool) {
	return common.Commitment{}, false
}

func (n hashNode) forget(Config, uint8, uint64) bool {
	return false
}

func (n hashNode) isKept() bool {
	return false
}

// leafNode is a kept commitment together with its digest.
type leafNode struct {
	commitment common.Commitment
	digest     common.Hash
}

func (n *leafNode) hash() common.Hash {
	return n.digest
}

func (n *leafNode) witness(cfg Config, height uint8, position uint64, path *AuthPath) (common.Commitment, bool) {
	if height != 0 || position != 0 {
		return common.Commitment{}, false
	}
	return n.commitment, true
}

func (n *leafNode) forget(Config, uint8, uint64) bool {
	// The enclosing branch swaps a leaf for its digest; a leaf on its own
	// has nowhere to record the transition.
	panic("forget must be handled by the enclosing node")
}

func (n *leafNode) isKept() bool {
	return true
}

// branchNode is a kept internal node of a finalized subtree. Children are
// stored left to right; absent children on the right count as empty
// subtrees.
type branchNode struct {
	children []completeNode
	digest   common.Hash
}

func (n *branchNode) hash() common.Hash {
	return n.digest
}

func (n *branchNode) witness(cfg Config, height uint8, position uint64, path *AuthPath) (common.Commitment, bool) {
	childCapacity := cfg.subtreeCapacity(height - 1)
	index := int(position / childCapacity)
	if index >= len(n.children) {
		return common.Commitment{}, false
	}
	commitment, ok := n.children[index].witness(cfg, height-1, position%childCapacity, path)
	if !ok {
		return common.Commitment{}, false
	}
	siblings := make([]common.Hash, 0, cfg.Arity-1)
	for i := 0; i < cfg.Arity; i++ {
		if i == index {
			continue
		}
		if i < len(n.children) {
			siblings = append(siblings, n.children[i].hash())
		} else {
			siblings = append(siblings, common.ZeroHash)
		}
	}
	path.appendLevel(height, siblings)
	return commitment, true
}

func (n *branchNode) forget(cfg Config, height uint8, position uint64) bool {
	childCapacity := cfg.subtreeCapacity(height - 1)
	index := int(position / childCapacity)
	if index >= len(n.children) {
		return false
	}
	return forgetInChild(cfg, n.children, index, height-1, position%childCapacity)
}

func (n *branchNode) isKept() bool {
	for _, child := range n.children {
		if child.isKept() {
			return true
		}
	}
	return false
}

// forgetInChild forgets a position inside children[index], replacing the
// child with its bare digest once no live content remains beneath it. The
// digest of the child, and hence of every ancestor, is unaffected.
func forgetInChild(cfg Config, children []completeNode, index int, height uint8, position uint64) bool {
	switch child := children[index].(type) {
	case hashNode:
		return false
	case *leafNode:
		if position != 0 {
			return false
		}
		children[index] = hashNode(child.digest)
		return true
	case *branchNode:
		changed := child.forget(cfg, height, position)
		if changed && !child.isKept() {
			children[index] = hashNode(child.digest)
		}
		return changed
	default:
		panic(fmt.Sprintf("unexpected complete node variant %T", child))
	}
}
