package tct

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/shielded-ledger/tct/common"
)

// The serialized form preserves exactly which nodes are kept and which are
// hash-only, and every cached digest, so a reloaded accumulator never
// recomputes a hash and never resurrects forgotten content. Each node is an
// RLP list starting with a variant tag.
const (
	tagHashNode uint8 = iota
	tagLeafNode
	tagBranchNode
	tagFrontierLeaf
	tagSealedNode
	tagFrontierBranch
)

// EncodeRLP writes the serialized form of the accumulator. The hash
// algorithm is configuration, not state, and is not part of it.
func (t *Top) EncodeRLP(w io.Writer) error {
	rootList := []rlp.RawValue{}
	if t.root != nil {
		raw, err := encodeFrontierNode(t.root)
		if err != nil {
			return err
		}
		rootList = append(rootList, raw)
	}
	return rlp.Encode(w, []interface{}{uint64(t.cfg.Arity), []byte(t.cfg.TierDepths), rootList})
}

// DecodeRLP restores an accumulator from its serialized form. The caller
// attaches the hash algorithm afterwards; DecodeTop does both.
func (t *Top) DecodeRLP(s *rlp.Stream) error {
	if _, err := s.List(); err != nil {
		return err
	}
	arity, err := s.Uint64()
	if err != nil {
		return fmt.Errorf("decoding arity: %w", err)
	}
	depths, err := s.Bytes()
	if err != nil {
		return fmt.Errorf("decoding tier depths: %w", err)
	}
	cfg := Config{Arity: int(arity), TierDepths: depths}
	if err := cfg.Check(); err != nil {
		return fmt.Errorf("decoded an unusable shape: %w", err)
	}
	if _, err := s.List(); err != nil {
		return err
	}
	root, err := decodeFrontierNode(s)
	if err == rlp.EOL {
		root = nil
	} else if err != nil {
		return err
	}
	if err := s.ListEnd(); err != nil {
		return err
	}
	if err := s.ListEnd(); err != nil {
		return err
	}
	t.cfg = cfg
	t.root = root
	return nil
}

// DecodeTop decodes an accumulator serialized with EncodeRLP and attaches
// the hash algorithm it was built with.
func DecodeTop(data []byte, algorithm common.HashAlgorithm) (*Top, error) {
	var top Top
	if err := rlp.DecodeBytes(data, &top); err != nil {
		return nil, fmt.Errorf("decoding accumulator: %w", err)
	}
	top.hasher = algorithm.CreateHasher()
	return &top, nil
}

// EncodeRLP writes the serialized form of the tree.
func (t *Tree) EncodeRLP(w io.Writer) error {
	return t.top.EncodeRLP(w)
}

// DecodeTree decodes a tree serialized with EncodeRLP and attaches the hash
// algorithm it was built with.
func DecodeTree(data []byte, algorithm common.HashAlgorithm) (*Tree, error) {
	top, err := DecodeTop(data, algorithm)
	if err != nil {
		return nil, err
	}
	if len(top.cfg.TierDepths) != 3 {
		return nil, fmt.Errorf("decoded shape has %d tiers, a tree has 3", len(top.cfg.TierDepths))
	}
	return &Tree{top: top}, nil
}

func encodeCompleteNode(node completeNode) (rlp.RawValue, error) {
	switch node := node.(type) {
	case hashNode:
		hash := common.Hash(node)
		return rlp.EncodeToBytes([]interface{}{tagHashNode, hash[:]})
	case *leafNode:
		return rlp.EncodeToBytes([]interface{}{tagLeafNode, node.commitment[:], node.digest[:]})
	case *branchNode:
		children := make([]rlp.RawValue, len(node.children))
		for i, child := range node.children {
			raw, err := encodeCompleteNode(child)
			if err != nil {
				return nil, err
			}
			children[i] = raw
		}
		return rlp.EncodeToBytes([]interface{}{tagBranchNode, node.digest[:], children})
	default:
		panic(fmt.Sprintf("unexpected complete node variant %T", node))
	}
}

func decodeCompleteNode(s *rlp.Stream) (completeNode, error) {
	if _, err := s.List(); err != nil {
		return nil, err
	}
	tag, err := s.Uint64()
	if err != nil {
		return nil, fmt.Errorf("decoding node tag: %w", err)
	}
	var node completeNode
	switch uint8(tag) {
	case tagHashNode:
		hash, err := decodeHash(s)
		if err != nil {
			return nil, err
		}
		node = hashNode(hash)
	case tagLeafNode:
		commitment, err := decodeCommitment(s)
		if err != nil {
			return nil, err
		}
		digest, err := decodeHash(s)
		if err != nil {
			return nil, err
		}
		node = &leafNode{commitment: commitment, digest: digest}
	case tagBranchNode:
		digest, err := decodeHash(s)
		if err != nil {
			return nil, err
		}
		children, err := decodeCompleteChildren(s)
		if err != nil {
			return nil, err
		}
		node = &branchNode{children: children, digest: digest}
	default:
		return nil, fmt.Errorf("unknown complete node tag %d", tag)
	}
	return node, s.ListEnd()
}

func decodeCompleteChildren(s *rlp.Stream) ([]completeNode, error) {
	if _, err := s.List(); err != nil {
		return nil, err
	}
	var children []completeNode
	for {
		child, err := decodeCompleteNode(s)
		if err == rlp.EOL {
			break
		}
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("decoded a branch without children")
	}
	return children, nil
}

func encodeFrontierNode(node frontierNode) (rlp.RawValue, error) {
	switch node := node.(type) {
	case *frontierLeaf:
		commitment := []byte{}
		if node.kept {
			commitment = node.commitment[:]
		}
		digest := []byte{}
		if node.hashed {
			digest = node.digest[:]
		}
		return rlp.EncodeToBytes([]interface{}{tagFrontierLeaf, node.kept, commitment, node.hashed, digest})
	case *sealedNode:
		inner, err := encodeCompleteNode(node.inner)
		if err != nil {
			return nil, err
		}
		return rlp.EncodeToBytes([]interface{}{tagSealedNode, inner})
	case *frontierBranch:
		digest := []byte{}
		if node.hashed {
			digest = node.digest[:]
		}
		siblings := make([]rlp.RawValue, len(node.siblings))
		for i, sibling := range node.siblings {
			raw, err := encodeCompleteNode(sibling)
			if err != nil {
				return nil, err
			}
			siblings[i] = raw
		}
		focus, err := encodeFrontierNode(node.focus)
		if err != nil {
			return nil, err
		}
		return rlp.EncodeToBytes([]interface{}{tagFrontierBranch, node.hashed, digest, siblings, focus})
	default:
		panic(fmt.Sprintf("unexpected frontier node variant %T", node))
	}
}

func decodeFrontierNode(s *rlp.Stream) (frontierNode, error) {
	if _, err := s.List(); err != nil {
		return nil, err
	}
	tag, err := s.Uint64()
	if err != nil {
		return nil, fmt.Errorf("decoding node tag: %w", err)
	}
	var node frontierNode
	switch uint8(tag) {
	case tagFrontierLeaf:
		kept, err := s.Bool()
		if err != nil {
			return nil, err
		}
		commitment, err := decodeOptionalCommitment(s, kept)
		if err != nil {
			return nil, err
		}
		hashed, err := s.Bool()
		if err != nil {
			return nil, err
		}
		digest, err := decodeOptionalHash(s, hashed)
		if err != nil {
			return nil, err
		}
		if !kept && !hashed {
			return nil, fmt.Errorf("decoded a forgotten leaf without a digest")
		}
		node = &frontierLeaf{commitment: commitment, kept: kept, digest: digest, hashed: hashed}
	case tagSealedNode:
		inner, err := decodeCompleteNode(s)
		if err != nil {
			return nil, err
		}
		node = &sealedNode{inner: inner}
	case tagFrontierBranch:
		hashed, err := s.Bool()
		if err != nil {
			return nil, err
		}
		digest, err := decodeOptionalHash(s, hashed)
		if err != nil {
			return nil, err
		}
		siblings, err := decodeFrontierSiblings(s)
		if err != nil {
			return nil, err
		}
		focus, err := decodeFrontierNode(s)
		if err != nil {
			return nil, err
		}
		node = &frontierBranch{siblings: siblings, focus: focus, digest: digest, hashed: hashed}
	default:
		return nil, fmt.Errorf("unknown frontier node tag %d", tag)
	}
	return node, s.ListEnd()
}

func decodeFrontierSiblings(s *rlp.Stream) ([]completeNode, error) {
	if _, err := s.List(); err != nil {
		return nil, err
	}
	var siblings []completeNode
	for {
		sibling, err := decodeCompleteNode(s)
		if err == rlp.EOL {
			break
		}
		if err != nil {
			return nil, err
		}
		siblings = append(siblings, sibling)
	}
	return siblings, s.ListEnd()
}

func decodeHash(s *rlp.Stream) (common.Hash, error) {
	bytes, err := s.Bytes()
	if err != nil {
		return common.Hash{}, err
	}
	if len(bytes) != len(common.Hash{}) {
		return common.Hash{}, fmt.Errorf("decoded a digest of %d bytes, want %d", len(bytes), len(common.Hash{}))
	}
	return common.HashSerializer{}.FromBytes(bytes), nil
}

func decodeOptionalHash(s *rlp.Stream, present bool) (common.Hash, error) {
	if !present {
		bytes, err := s.Bytes()
		if err != nil {
			return common.Hash{}, err
		}
		if len(bytes) != 0 {
			return common.Hash{}, fmt.Errorf("unexpected digest on an uncached node")
		}
		return common.Hash{}, nil
	}
	return decodeHash(s)
}

func decodeCommitment(s *rlp.Stream) (common.Commitment, error) {
	bytes, err := s.Bytes()
	if err != nil {
		return common.Commitment{}, err
	}
	if len(bytes) != len(common.Commitment{}) {
		return common.Commitment{}, fmt.Errorf("decoded a commitment of %d bytes, want %d", len(bytes), len(common.Commitment{}))
	}
	return common.CommitmentSerializer{}.FromBytes(bytes), nil
}

func decodeOptionalCommitment(s *rlp.Stream, present bool) (common.Commitment, error) {
	if !present {
		bytes, err := s.Bytes()
		if err != nil {
			return common.Commitment{}, err
		}
		if len(bytes) != 0 {
			return common.Commitment{}, fmt.Errorf("unexpected content on a forgotten leaf")
		}
		return common.Commitment{}, nil
	}
	return decodeCommitment(s)
}
