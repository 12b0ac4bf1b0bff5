package common

// TableSpace divide key-value storage into spaces by adding a prefix to the key.
type TableSpace byte

const (
	// TreeStoreKey is the "table space" of serialized accumulators
	TreeStoreKey TableSpace = 'T'
	// RootStoreKey is the "table space" of cached accumulator root hashes
	RootStoreKey TableSpace = 'R'
)

// DbKey holds a table space prefix followed by an 8-byte identifier.
type DbKey [9]byte

func (d DbKey) ToBytes() []byte {
	return d[:]
}

// ToDBKey converts the input key to its respective table space key
func (t TableSpace) ToDBKey(key []byte) DbKey {
	var dbKey DbKey
	dbKey[0] = byte(t)
	copy(dbKey[1:], key)
	return dbKey
}
