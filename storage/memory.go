package storage

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/shielded-ledger/tct/common"
	"github.com/shielded-ledger/tct/tct"
)

// MemoryStore keeps accumulators in memory, in their serialized form so that
// loading yields an independent copy. Intended for tests and tooling.
type MemoryStore struct {
	mu    sync.Mutex
	trees map[uint64][]byte
	roots map[uint64]common.Hash
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trees: map[uint64][]byte{},
		roots: map[uint64]common.Hash{},
	}
}

func (s *MemoryStore) PutTree(id uint64, tree *tct.Tree) error {
	data, err := rlp.EncodeToBytes(tree)
	if err != nil {
		return fmt.Errorf("failed to encode tree %d; %s", id, err)
	}
	root := tree.Root()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees[id] = data
	s.roots[id] = root
	return nil
}

func (s *MemoryStore) GetTree(id uint64, algorithm common.HashAlgorithm) (*tct.Tree, error) {
	s.mu.Lock()
	data, exists := s.trees[id]
	s.mu.Unlock()
	if !exists {
		return nil, common.ErrNotFound
	}
	return tct.DecodeTree(data, algorithm)
}

func (s *MemoryStore) GetRoot(id uint64) (common.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	root, exists := s.roots[id]
	if !exists {
		return common.Hash{}, common.ErrNotFound
	}
	return root, nil
}

func (s *MemoryStore) HasTree(id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.trees[id]
	return exists, nil
}

func (s *MemoryStore) DeleteTree(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trees, id)
	delete(s.roots, id)
	return nil
}
