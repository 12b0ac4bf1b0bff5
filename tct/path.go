package tct

import (
	"github.com/shielded-ledger/tct/common"

	"golang.org/x/exp/slices"
)

// AuthPath is the ordered sequence of sibling digests from the leaf's level
// up to, but not including, the root: one entry of arity-1 digests per
// level, left to right, with absent subtrees as ZeroHash.
type AuthPath struct {
	levels [][]common.Hash
}

// Levels retains a (shared) view on the collected sibling digests.
func (p *AuthPath) Levels() [][]common.Hash {
	return p.levels
}

func (p *AuthPath) appendLevel(height uint8, siblings []common.Hash) {
	p.levels = append(p.levels, siblings)
}

// Proof bundles everything needed to prove that a commitment is included at
// a specific position: the leaf value, its position, and the authentication
// path to the root. It is the unit handed to an external proving system.
type Proof struct {
	Position   uint64
	Commitment common.Commitment
	Path       AuthPath
}

// Verify recombines the leaf value with the authentication path and reports
// whether the result reproduces the given root. The shape and hasher must be
// the ones of the tree the proof was taken from.
func (p *Proof) Verify(cfg Config, hasher common.TreeHasher, root common.Hash) bool {
	if len(p.Path.levels) != int(cfg.totalHeight()) {
		return false
	}
	current := hasher.HashLeaf(p.Commitment)
	position := p.Position
	for level, siblings := range p.Path.levels {
		if len(siblings) != cfg.Arity-1 {
			return false
		}
		index := int(position % uint64(cfg.Arity))
		children := slices.Insert(slices.Clone(siblings), index, current)
		current = hasher.HashNode(uint8(level+1), children)
		position /= uint64(cfg.Arity)
	}
	return current == root
}
