package common

import "golang.org/x/exp/constraints"

// Hash is an opaque digest produced by a TreeHasher. Hashes are pure values
// with no identity beyond their content.
type Hash [32]byte

// Commitment is the raw leaf value recorded by the accumulator.
type Commitment [32]byte

// Serializer converts a value of a fixed-size type to and from its byte
// representation.
type Serializer[T any] interface {
	ToBytes(T) []byte
	FromBytes([]byte) T
	Size() int // size in bytes when serialized
}

// Identifier is a type usable as a key of the storage collaborator.
type Identifier interface {
	constraints.Unsigned
}
