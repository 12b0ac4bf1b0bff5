package storage

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/shielded-ledger/tct/common"
	"github.com/shielded-ledger/tct/tct"
)

// LevelDbStore keeps serialized accumulators in a leveldb instance, trees
// and roots in separate table spaces under the same big-endian identifier,
// so iteration visits them in insertion order.
type LevelDbStore struct {
	db           common.LevelDB
	idSerializer common.IdentifierSerializer64[uint64]
}

func NewLevelDbStore(db common.LevelDB) *LevelDbStore {
	return &LevelDbStore{db: db}
}

func (s *LevelDbStore) treeKey(id uint64) []byte {
	return common.TreeStoreKey.ToDBKey(s.idSerializer.ToBytes(id)).ToBytes()
}

func (s *LevelDbStore) rootKey(id uint64) []byte {
	return common.RootStoreKey.ToDBKey(s.idSerializer.ToBytes(id)).ToBytes()
}

// PutTree writes the tree and its root in one batch; a reader never observes
// one without the other.
func (s *LevelDbStore) PutTree(id uint64, tree *tct.Tree) error {
	data, err := rlp.EncodeToBytes(tree)
	if err != nil {
		return fmt.Errorf("failed to encode tree %d; %s", id, err)
	}
	root := tree.Root()
	batch := new(leveldb.Batch)
	batch.Put(s.treeKey(id), data)
	batch.Put(s.rootKey(id), common.HashSerializer{}.ToBytes(root))
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to store tree %d; %s", id, err)
	}
	return nil
}

func (s *LevelDbStore) GetTree(id uint64, algorithm common.HashAlgorithm) (*tct.Tree, error) {
	data, err := s.db.Get(s.treeKey(id), nil)
	if err == leveldb.ErrNotFound {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tree %d; %s", id, err)
	}
	return tct.DecodeTree(data, algorithm)
}

func (s *LevelDbStore) GetRoot(id uint64) (common.Hash, error) {
	data, err := s.db.Get(s.rootKey(id), nil)
	if err == leveldb.ErrNotFound {
		return common.Hash{}, common.ErrNotFound
	}
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to load root %d; %s", id, err)
	}
	return common.HashSerializer{}.FromBytes(data), nil
}

func (s *LevelDbStore) HasTree(id uint64) (bool, error) {
	return s.db.Has(s.treeKey(id), nil)
}

func (s *LevelDbStore) DeleteTree(id uint64) error {
	batch := new(leveldb.Batch)
	batch.Delete(s.treeKey(id))
	batch.Delete(s.rootKey(id))
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to delete tree %d; %s", id, err)
	}
	return nil
}
