package common

//go:generate mockgen -source hasher.go -destination hasher_mocks.go -package common

import (
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Reserved digests. ZeroHash is the digest of an empty or absent subtree.
// OneHash marks a top-level container that has never been inserted into;
// ZeroHash is a legitimate subtree digest, so the empty container needs its
// own reserved value.
var (
	ZeroHash = Hash{}
	OneHash  = Hash{31: 1}
)

// TreeHasher is the boundary to the external hash function. The tree core
// never inspects digest internals; it only stores, compares, and combines
// digests through this interface.
type TreeHasher interface {

	// HashLeaf produces the digest of a single commitment.
	HashLeaf(commitment Commitment) Hash

	// HashNode produces the digest of an internal node from the digests of
	// its children, given in left-to-right order with absent children as
	// ZeroHash. The height is the node's distance from the leaf level and
	// separates the hash domains of the tree levels.
	HashNode(height uint8, children []Hash) Hash
}

// Domain separation tags; a leaf can never collide with an internal node.
const (
	leafDomain byte = 0x00
	nodeDomain byte = 0x01
)

// HashAlgorithm is a configuration token selecting the hash function backing
// an accumulator instance.
type HashAlgorithm struct {
	Name         string
	createHasher func() TreeHasher
}

// CreateHasher creates a new hasher instance of this algorithm.
func (a HashAlgorithm) CreateHasher() TreeHasher {
	return a.createHasher()
}

// Keccak256Hashing combines nodes with keccak256.
var Keccak256Hashing = HashAlgorithm{
	Name:         "Keccak256Hashing",
	createHasher: func() TreeHasher { return keccakTreeHasher{} },
}

// Blake3Hashing combines nodes with BLAKE3.
var Blake3Hashing = HashAlgorithm{
	Name:         "Blake3Hashing",
	createHasher: func() TreeHasher { return blake3TreeHasher{} },
}

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

// keccakState is the part of the sha3 state the hasher needs; the sha3
// package exposes it only behind hash.Hash.
type keccakState interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}

type keccakTreeHasher struct{}

func (keccakTreeHasher) HashLeaf(commitment Commitment) Hash {
	hasher := keccakHasherPool.Get().(keccakState)
	hasher.Reset()
	hasher.Write([]byte{leafDomain, 0})
	hasher.Write(commitment[:])
	var res Hash
	hasher.Read(res[:])
	keccakHasherPool.Put(hasher)
	return res
}

func (keccakTreeHasher) HashNode(height uint8, children []Hash) Hash {
	hasher := keccakHasherPool.Get().(keccakState)
	hasher.Reset()
	hasher.Write([]byte{nodeDomain, height})
	for i := range children {
		hasher.Write(children[i][:])
	}
	var res Hash
	hasher.Read(res[:])
	keccakHasherPool.Put(hasher)
	return res
}

type blake3TreeHasher struct{}

func (blake3TreeHasher) HashLeaf(commitment Commitment) Hash {
	var buf [2 + len(Commitment{})]byte
	buf[0] = leafDomain
	copy(buf[2:], commitment[:])
	return Hash(blake3.Sum256(buf[:]))
}

func (blake3TreeHasher) HashNode(height uint8, children []Hash) Hash {
	buf := make([]byte, 0, 2+len(children)*len(Hash{}))
	buf = append(buf, nodeDomain, height)
	for i := range children {
		buf = append(buf, children[i][:]...)
	}
	return Hash(blake3.Sum256(buf))
}
