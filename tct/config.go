package tct

import (
	"fmt"
)

// Config fixes the shape of an accumulator: the arity of every internal node
// and the depth of each tier, innermost tier first. All instances sharing a
// shape and a hash algorithm produce interchangeable digests.
type Config struct {
	Arity      int
	TierDepths []uint8
}

// DefaultConfig is the shape of the full commitment tree: quad trees, eight
// levels per tier, commitments tiered into blocks, blocks into epochs.
var DefaultConfig = Config{Arity: 4, TierDepths: []uint8{8, 8, 8}}

// Check verifies this configuration describes a usable tree shape.
func (c Config) Check() error {
	if c.Arity < 2 {
		return fmt.Errorf("tree arity must be at least 2, got %d", c.Arity)
	}
	if len(c.TierDepths) == 0 {
		return fmt.Errorf("a tree needs at least one tier")
	}
	height := 0
	for i, depth := range c.TierDepths {
		if depth == 0 {
			return fmt.Errorf("tier %d must have a non-zero depth", i)
		}
		height += int(depth)
	}
	if height > 255 {
		return fmt.Errorf("total tree height %d exceeds the supported maximum", height)
	}
	capacity := uint64(1)
	for i := 0; i < height; i++ {
		next := capacity * uint64(c.Arity)
		if next/uint64(c.Arity) != capacity || next > 1<<62 {
			return fmt.Errorf("tree capacity overflows the position space")
		}
		capacity = next
	}
	return nil
}

// Capacity returns the total number of leaf slots of the shape.
func (c Config) Capacity() uint64 {
	return c.subtreeCapacity(c.totalHeight())
}

// totalHeight is the number of levels between a leaf and the root.
func (c Config) totalHeight() uint8 {
	height := uint8(0)
	for _, depth := range c.TierDepths {
		height += depth
	}
	return height
}

// tierHeight returns the height of the root of tier i, counting tiers from
// the innermost.
func (c Config) tierHeight(i int) uint8 {
	height := uint8(0)
	for _, depth := range c.TierDepths[:i+1] {
		height += depth
	}
	return height
}

// subtreeCapacity is the number of leaf slots beneath a node of the given
// height.
func (c Config) subtreeCapacity(height uint8) uint64 {
	capacity := uint64(1)
	for i := uint8(0); i < height; i++ {
		capacity *= uint64(c.Arity)
	}
	return capacity
}
