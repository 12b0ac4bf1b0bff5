package tct

import (
	"testing"

	"github.com/shielded-ledger/tct/common"
)

// smallConfig is a binary tree of depth 2: four commitments fit.
var smallConfig = Config{Arity: 2, TierDepths: []uint8{2}}

func testCommitment(b byte) common.Commitment {
	return common.Commitment{0: b}
}

func newSmallTop(t *testing.T) *Top {
	t.Helper()
	top, err := NewTop(smallConfig, common.Keccak256Hashing)
	if err != nil {
		t.Fatalf("failed to create accumulator: %v", err)
	}
	return top
}

func mustInsert(t *testing.T, top *Top, commitments ...common.Commitment) {
	t.Helper()
	for _, commitment := range commitments {
		if err := top.Insert(commitment, Keep); err != nil {
			t.Fatalf("failed to insert %x: %v", commitment, err)
		}
	}
}

func TestTop_FreshAccumulatorIsEmpty(t *testing.T) {
	top := newSmallTop(t)
	if !top.IsEmpty() {
		t.Errorf("fresh accumulator is not empty")
	}
	if top.IsFull() {
		t.Errorf("fresh accumulator reports itself full")
	}
	if got := top.Root(); got != common.OneHash {
		t.Errorf("empty accumulator root is %x, want the reserved empty-container hash", got)
	}
	if got, ok := top.CachedRoot(); !ok || got != common.OneHash {
		t.Errorf("empty accumulator has no cached root")
	}
	if position, ok := top.Position(); !ok || position != 0 {
		t.Errorf("empty accumulator reports position %d/%t, want 0", position, ok)
	}
}

func TestTop_PositionsFollowInsertionOrder(t *testing.T) {
	top := newSmallTop(t)
	for i := byte(0); i < 4; i++ {
		position, ok := top.Position()
		if !ok || position != uint64(i) {
			t.Fatalf("next position before insert %d is %d/%t", i, position, ok)
		}
		mustInsert(t, top, testCommitment(i))
	}
	if _, ok := top.Position(); ok {
		t.Errorf("full accumulator still reports a next position")
	}
	if !top.IsFull() {
		t.Errorf("accumulator at capacity does not report itself full")
	}
}

func TestTop_InsertIntoFullTierFailsWithoutMutation(t *testing.T) {
	top := newSmallTop(t)
	mustInsert(t, top, testCommitment(1), testCommitment(2), testCommitment(3), testCommitment(4))
	before := top.Root()
	if err := top.Insert(testCommitment(5), Keep); err != common.ErrFull {
		t.Fatalf("insert into a full tier returned %v, want ErrFull", err)
	}
	if after := top.Root(); after != before {
		t.Errorf("rejected insert changed the root: %x != %x", after, before)
	}
	if !top.IsFull() {
		t.Errorf("rejected insert changed the full state")
	}
}

func TestTop_FinalizePreservesRoot(t *testing.T) {
	top := newSmallTop(t)
	mustInsert(t, top, testCommitment(1), testCommitment(2), testCommitment(3))
	before := top.Root()
	finalized := top.Finalize()
	if got := finalized.Root(); got != before {
		t.Errorf("finalization changed the root: %x != %x", got, before)
	}
	if err := top.Insert(testCommitment(4), Keep); err != common.ErrFull {
		t.Errorf("insert after finalization returned %v, want ErrFull", err)
	}
}

func TestTop_FinalizeEmptyYieldsEmptyHash(t *testing.T) {
	top := newSmallTop(t)
	if got := top.Finalize().Root(); got != common.OneHash {
		t.Errorf("finalized empty accumulator has root %x, want the reserved empty hash", got)
	}
}

func TestTop_WitnessProvesInclusion(t *testing.T) {
	top := newSmallTop(t)
	commitments := []common.Commitment{testCommitment(1), testCommitment(2), testCommitment(3), testCommitment(4)}
	mustInsert(t, top, commitments...)
	root := top.Root()
	hasher := common.Keccak256Hashing.CreateHasher()
	for position, commitment := range commitments {
		proof, ok := top.Witness(uint64(position))
		if !ok {
			t.Fatalf("no witness for live position %d", position)
		}
		if proof.Commitment != commitment {
			t.Errorf("witness at %d returned %x, want %x", position, proof.Commitment, commitment)
		}
		if !proof.Verify(smallConfig, hasher, root) {
			t.Errorf("proof for position %d does not reproduce the root", position)
		}
	}
	if _, ok := top.Witness(4); ok {
		t.Errorf("witness for an out-of-range position succeeded")
	}
}

func TestTop_WitnessScenario(t *testing.T) {
	// Arity 2, depth 2: insert a,b,c,d, finalize, prove c at position 2,
	// forget it, and check b is unaffected.
	top := newSmallTop(t)
	a, b, c, d := testCommitment('a'), testCommitment('b'), testCommitment('c'), testCommitment('d')
	mustInsert(t, top, a, b, c, d)
	if err := top.Insert(testCommitment('e'), Keep); err != common.ErrFull {
		t.Fatalf("fifth insert returned %v, want ErrFull", err)
	}
	finalized := top.Finalize()
	root := finalized.Root()
	hasher := common.Keccak256Hashing.CreateHasher()

	proof, ok := finalized.Witness(2)
	if !ok || proof.Commitment != c {
		t.Fatalf("witness(2) = %x/%t, want %x", proof.Commitment, ok, c)
	}
	if !proof.Verify(smallConfig, hasher, root) {
		t.Errorf("proof for c does not reproduce the root")
	}

	if !finalized.Forget(2) {
		t.Errorf("forgetting a live position reported no change")
	}
	if finalized.Forget(2) {
		t.Errorf("forgetting twice reported a change")
	}
	if got := finalized.Root(); got != root {
		t.Errorf("forgetting changed the root: %x != %x", got, root)
	}
	if _, ok := finalized.Witness(2); ok {
		t.Errorf("witness for a forgotten position succeeded")
	}
	proof, ok = finalized.Witness(1)
	if !ok || proof.Commitment != b {
		t.Fatalf("witness(1) after forgetting 2 = %x/%t, want %x", proof.Commitment, ok, b)
	}
	if !proof.Verify(smallConfig, hasher, root) {
		t.Errorf("proof for b does not reproduce the root")
	}
}

func TestTop_ForgetOnFrontierKeepsHashAndNeighbors(t *testing.T) {
	top := newSmallTop(t)
	mustInsert(t, top, testCommitment(1), testCommitment(2), testCommitment(3))
	root := top.Root()
	if !top.Forget(1) {
		t.Fatalf("forgetting a live position reported no change")
	}
	if got := top.Root(); got != root {
		t.Errorf("forgetting changed the root: %x != %x", got, root)
	}
	if _, ok := top.Witness(1); ok {
		t.Errorf("witness for a forgotten position succeeded")
	}
	hasher := common.Keccak256Hashing.CreateHasher()
	for _, position := range []uint64{0, 2} {
		proof, ok := top.Witness(position)
		if !ok || !proof.Verify(smallConfig, hasher, root) {
			t.Errorf("live position %d lost its witness after an unrelated forget", position)
		}
	}
}

func TestTop_InsertAfterForgetSucceeds(t *testing.T) {
	top := newSmallTop(t)
	mustInsert(t, top, testCommitment(1))
	if !top.Forget(0) {
		t.Fatalf("forgetting the focus reported no change")
	}
	mustInsert(t, top, testCommitment(2))
	if position, ok := top.Position(); !ok || position != 2 {
		t.Errorf("position after forget and insert is %d/%t, want 2", position, ok)
	}
	proof, ok := top.Witness(1)
	if !ok || proof.Commitment != testCommitment(2) {
		t.Errorf("commitment inserted after a forget is not witnessable")
	}
}

func TestTop_UpdateMutatesLatestCommitment(t *testing.T) {
	top := newSmallTop(t)
	mustInsert(t, top, testCommitment(1), testCommitment(2))
	before := top.Root()
	updated := top.Update(func(commitment *common.Commitment) {
		commitment[1] = 0xFF
	})
	if !updated {
		t.Fatalf("update of a live focus reported no change")
	}
	if got := top.Root(); got == before {
		t.Errorf("update did not change the root")
	}
	proof, ok := top.Witness(1)
	if !ok || proof.Commitment[1] != 0xFF {
		t.Errorf("witness does not observe the update: %x/%t", proof.Commitment, ok)
	}
}

func TestTop_UpdateRequiresLiveFocus(t *testing.T) {
	top := newSmallTop(t)
	if top.Update(func(*common.Commitment) {}) {
		t.Errorf("update on an empty accumulator succeeded")
	}
	mustInsert(t, top, testCommitment(1))
	top.Forget(0)
	if top.Update(func(*common.Commitment) {}) {
		t.Errorf("update on a forgotten focus succeeded")
	}
}

func TestTop_DiscardEqualsInsertThenForget(t *testing.T) {
	kept := newSmallTop(t)
	discarded := newSmallTop(t)
	for i := byte(1); i <= 3; i++ {
		mustInsert(t, kept, testCommitment(i))
		if err := discarded.Insert(testCommitment(i), Discard); err != nil {
			t.Fatalf("failed to insert hash-only commitment: %v", err)
		}
	}
	kept.Forget(0)
	kept.Forget(1)
	kept.Forget(2)
	if kept.Root() != discarded.Root() {
		t.Errorf("discarding at insert and forgetting later diverge: %x != %x", kept.Root(), discarded.Root())
	}
	if _, ok := discarded.Witness(0); ok {
		t.Errorf("witness for a discarded commitment succeeded")
	}
}
