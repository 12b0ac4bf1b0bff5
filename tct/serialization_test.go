package tct

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/shielded-ledger/tct/common"
)

func TestSerialization_RoundTripPreservesState(t *testing.T) {
	tree := newTieredTree(t)
	insertAll(t, tree, testCommitment(1), testCommitment(2))
	if err := tree.Insert(testCommitment(3), Discard); err != nil {
		t.Fatalf("failed to insert hash-only commitment: %v", err)
	}
	if _, err := tree.EndBlock(); err != nil {
		t.Fatalf("failed to end the block: %v", err)
	}
	insertAll(t, tree, testCommitment(4))
	tree.Forget(1)
	root := tree.Root()

	data, err := rlp.EncodeToBytes(tree)
	if err != nil {
		t.Fatalf("failed to encode tree: %v", err)
	}
	restored, err := DecodeTree(data, common.Keccak256Hashing)
	if err != nil {
		t.Fatalf("failed to decode tree: %v", err)
	}

	if got := restored.Root(); got != root {
		t.Errorf("restored root is %x, want %x", got, root)
	}
	if position, ok := restored.Position(); !ok || position != 5 {
		t.Errorf("restored position is %d/%t, want 5", position, ok)
	}
	hasher := common.Keccak256Hashing.CreateHasher()
	for _, position := range []uint64{0, 4} {
		proof, ok := restored.Witness(position)
		if !ok || !proof.Verify(tieredConfig, hasher, root) {
			t.Errorf("restored tree lost the witness for position %d", position)
		}
	}
	// Neither the forgotten nor the discarded commitment comes back.
	for _, position := range []uint64{1, 2} {
		if _, ok := restored.Witness(position); ok {
			t.Errorf("restored tree resurrected forgotten position %d", position)
		}
	}
	insertAll(t, restored, testCommitment(5))
	if position, ok := restored.Position(); !ok || position != 6 {
		t.Errorf("restored tree does not accept further insertions")
	}
}

func TestSerialization_RoundTripPreservesEmptyTree(t *testing.T) {
	tree := newTieredTree(t)
	data, err := rlp.EncodeToBytes(tree)
	if err != nil {
		t.Fatalf("failed to encode tree: %v", err)
	}
	restored, err := DecodeTree(data, common.Keccak256Hashing)
	if err != nil {
		t.Fatalf("failed to decode tree: %v", err)
	}
	if !restored.IsEmpty() {
		t.Errorf("restored empty tree is not empty")
	}
	if got := restored.Root(); got != common.OneHash {
		t.Errorf("restored empty tree has root %x", got)
	}
}

func TestSerialization_ReloadNeverRecomputesHashes(t *testing.T) {
	tree := newTieredTree(t)
	insertAll(t, tree, testCommitment(1), testCommitment(2))
	root := tree.Root() // caches every digest along the frontier
	data, err := rlp.EncodeToBytes(tree)
	if err != nil {
		t.Fatalf("failed to encode tree: %v", err)
	}
	restored, err := DecodeTree(data, common.Keccak256Hashing)
	if err != nil {
		t.Fatalf("failed to decode tree: %v", err)
	}
	if got, ok := restored.CachedRoot(); !ok || got != root {
		t.Errorf("restored root is not served from the cache: %x/%t", got, ok)
	}
}

func TestSerialization_TopRoundTrip(t *testing.T) {
	top := newSmallTop(t)
	mustInsert(t, top, testCommitment(1), testCommitment(2))
	root := top.Root()
	data, err := rlp.EncodeToBytes(top)
	if err != nil {
		t.Fatalf("failed to encode accumulator: %v", err)
	}
	restored, err := DecodeTop(data, common.Keccak256Hashing)
	if err != nil {
		t.Fatalf("failed to decode accumulator: %v", err)
	}
	if restored.Config().Arity != smallConfig.Arity {
		t.Errorf("restored arity is %d", restored.Config().Arity)
	}
	if got := restored.Root(); got != root {
		t.Errorf("restored root is %x, want %x", got, root)
	}
}

func TestSerialization_RejectsCorruptedInput(t *testing.T) {
	tree := newTieredTree(t)
	insertAll(t, tree, testCommitment(1))
	data, err := rlp.EncodeToBytes(tree)
	if err != nil {
		t.Fatalf("failed to encode tree: %v", err)
	}
	if _, err := DecodeTree(data[:len(data)/2], common.Keccak256Hashing); err == nil {
		t.Errorf("decoding truncated input succeeded")
	}
	if _, err := DecodeTree([]byte{0xC0}, common.Keccak256Hashing); err == nil {
		t.Errorf("decoding an empty list succeeded")
	}
	if _, err := DecodeTree(nil, common.Keccak256Hashing); err == nil {
		t.Errorf("decoding no input succeeded")
	}
}

func TestSerialization_RejectsWrongTierCount(t *testing.T) {
	top := newSmallTop(t)
	data, err := rlp.EncodeToBytes(top)
	if err != nil {
		t.Fatalf("failed to encode accumulator: %v", err)
	}
	if _, err := DecodeTree(data, common.Keccak256Hashing); err == nil {
		t.Errorf("decoding a single-tier accumulator as a tree succeeded")
	}
}
