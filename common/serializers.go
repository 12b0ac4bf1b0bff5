package common

import "encoding/binary"

// HashSerializer is a Serializer of the Hash type
type HashSerializer struct{}

func (a HashSerializer) ToBytes(hash Hash) []byte {
	return hash[:]
}
func (a HashSerializer) FromBytes(bytes []byte) Hash {
	var hash Hash
	copy(hash[:], bytes)
	return hash
}
func (a HashSerializer) Size() int {
	return 32
}

// CommitmentSerializer is a Serializer of the Commitment type
type CommitmentSerializer struct{}

func (a CommitmentSerializer) ToBytes(commitment Commitment) []byte {
	return commitment[:]
}
func (a CommitmentSerializer) FromBytes(bytes []byte) Commitment {
	var commitment Commitment
	copy(commitment[:], bytes)
	return commitment
}
func (a CommitmentSerializer) Size() int {
	return 32
}

// IdentifierSerializer64 is a Serializer of 64bit identifiers. Identifiers
// are serialized big-endian so that database keys sort in insertion order.
type IdentifierSerializer64[I Identifier] struct{}

func (a IdentifierSerializer64[I]) ToBytes(id I) []byte {
	return binary.BigEndian.AppendUint64([]byte{}, uint64(id))
}
func (a IdentifierSerializer64[I]) FromBytes(bytes []byte) I {
	return I(binary.BigEndian.Uint64(bytes))
}
func (a IdentifierSerializer64[I]) Size() int {
	return 8
}
