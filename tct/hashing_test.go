package tct

import (
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/shielded-ledger/tct/common"
)

func TestTop_RootHashesEachNodeOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	hasher := common.NewMockTreeHasher(ctrl)
	top := newSmallTop(t)
	top.hasher = hasher

	mustInsert(t, top, testCommitment(1)) // kept commitments are not hashed on insert

	leaf := common.Hash{0x0A}
	inner := common.Hash{0x0B}
	root := common.Hash{0x0C}
	hasher.EXPECT().HashLeaf(testCommitment(1)).Return(leaf).Times(1)
	hasher.EXPECT().HashNode(uint8(1), []common.Hash{leaf, common.ZeroHash}).Return(inner).Times(1)
	hasher.EXPECT().HashNode(uint8(2), []common.Hash{inner, common.ZeroHash}).Return(root).Times(1)

	if got := top.Root(); got != root {
		t.Errorf("root is %x, want %x", got, root)
	}
	// Entirely served from the cache; the mock rejects further calls.
	if got := top.Root(); got != root {
		t.Errorf("cached root is %x, want %x", got, root)
	}
	if got, ok := top.CachedRoot(); !ok || got != root {
		t.Errorf("cached root is %x/%t, want %x", got, ok, root)
	}
}

func TestTop_DiscardHashesAtInsertion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	hasher := common.NewMockTreeHasher(ctrl)
	top := newSmallTop(t)
	top.hasher = hasher

	hasher.EXPECT().HashLeaf(testCommitment(9)).Return(common.Hash{0x0A}).Times(1)
	if err := top.Insert(testCommitment(9), Discard); err != nil {
		t.Fatalf("failed to insert hash-only commitment: %v", err)
	}
}

func TestTop_UpdateInvalidatesOnlyTheFocusPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	hasher := common.NewMockTreeHasher(ctrl)
	top := newSmallTop(t)
	top.hasher = hasher

	mustInsert(t, top, testCommitment(1))
	hasher.EXPECT().HashLeaf(gomock.Any()).Return(common.Hash{0x0A}).Times(1)
	hasher.EXPECT().HashNode(gomock.Any(), gomock.Any()).Return(common.Hash{0x0B}).Times(2)
	top.Root()

	if !top.Update(func(commitment *common.Commitment) { commitment[1] = 0xFF }) {
		t.Fatalf("update of a live focus reported no change")
	}
	updated := testCommitment(1)
	updated[1] = 0xFF
	hasher.EXPECT().HashLeaf(updated).Return(common.Hash{0x1A}).Times(1)
	hasher.EXPECT().HashNode(gomock.Any(), gomock.Any()).Return(common.Hash{0x1B}).Times(2)
	top.Root()
}
