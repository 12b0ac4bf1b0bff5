package tct

import (
	"testing"

	"github.com/shielded-ledger/tct/common"
)

func TestProof_VerifyRejectsTampering(t *testing.T) {
	top := newSmallTop(t)
	mustInsert(t, top, testCommitment(1), testCommitment(2), testCommitment(3))
	root := top.Root()
	hasher := common.Keccak256Hashing.CreateHasher()

	proof, ok := top.Witness(1)
	if !ok {
		t.Fatalf("no witness for position 1")
	}
	if !proof.Verify(smallConfig, hasher, root) {
		t.Fatalf("untouched proof does not verify")
	}

	tampered := proof
	tampered.Commitment[0] ^= 1
	if tampered.Verify(smallConfig, hasher, root) {
		t.Errorf("proof with a modified commitment verified")
	}

	tampered = proof
	tampered.Position = 2
	if tampered.Verify(smallConfig, hasher, root) {
		t.Errorf("proof relocated to another position verified")
	}

	if proof.Verify(smallConfig, hasher, common.Hash{0xFF}) {
		t.Errorf("proof verified against a foreign root")
	}

	levels := proof.Path.Levels()
	levels[0][0][0] ^= 1
	if proof.Verify(smallConfig, hasher, root) {
		t.Errorf("proof with a modified sibling verified")
	}
}

func TestProof_VerifyChecksPathLength(t *testing.T) {
	top := newSmallTop(t)
	mustInsert(t, top, testCommitment(1))
	root := top.Root()
	hasher := common.Keccak256Hashing.CreateHasher()

	proof, ok := top.Witness(0)
	if !ok {
		t.Fatalf("no witness for position 0")
	}
	truncated := proof
	truncated.Path = AuthPath{levels: proof.Path.levels[:1]}
	if truncated.Verify(smallConfig, hasher, root) {
		t.Errorf("truncated proof verified")
	}
	var empty Proof
	if empty.Verify(smallConfig, hasher, root) {
		t.Errorf("empty proof verified")
	}
}

func TestProof_PathHasOneLevelPerTreeLevel(t *testing.T) {
	top := newSmallTop(t)
	mustInsert(t, top, testCommitment(1))
	proof, ok := top.Witness(0)
	if !ok {
		t.Fatalf("no witness for position 0")
	}
	levels := proof.Path.Levels()
	if len(levels) != int(smallConfig.totalHeight()) {
		t.Fatalf("path has %d levels, want %d", len(levels), smallConfig.totalHeight())
	}
	for i, siblings := range levels {
		if len(siblings) != smallConfig.Arity-1 {
			t.Errorf("level %d carries %d siblings, want %d", i, len(siblings), smallConfig.Arity-1)
		}
	}
}
