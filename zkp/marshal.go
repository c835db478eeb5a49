package zkp

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/takakv/egcontest/group"
)

type branchProofJSON struct {
	A         json.RawMessage `json:"a"`
	B         json.RawMessage `json:"b"`
	Challenge *big.Int        `json:"c"`
	Response  *big.Int        `json:"v"`
}

func (p BranchProof) MarshalJSON() ([]byte, error) {
	a, err := json.Marshal(p.A)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(p.B)
	if err != nil {
		return nil, err
	}
	return json.Marshal(branchProofJSON{A: a, B: b, Challenge: p.Challenge, Response: p.Response})
}

func unmarshalBranches(raw []branchProofJSON, g group.Group) ([]BranchProof, error) {
	out := make([]BranchProof, len(raw))
	for i, tmp := range raw {
		out[i] = BranchProof{
			A:         g.Element(),
			B:         g.Element(),
			Challenge: tmp.Challenge,
			Response:  tmp.Response,
		}
		if err := out[i].A.UnmarshalJSON(tmp.A); err != nil {
			return nil, fmt.Errorf("branch %d: %w", i, err)
		}
		if err := out[i].B.UnmarshalJSON(tmp.B); err != nil {
			return nil, fmt.Errorf("branch %d: %w", i, err)
		}
	}
	return out, nil
}

// UnmarshalBinaryProofJSON decodes a BinaryEncryptionProof whose elements
// belong to g.
func UnmarshalBinaryProofJSON(b []byte, g group.Group) (*BinaryEncryptionProof, error) {
	var raw []branchProofJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	if len(raw) != 2 {
		return nil, fmt.Errorf("binary proof has %d branches, want 2", len(raw))
	}
	branches, err := unmarshalBranches(raw, g)
	if err != nil {
		return nil, err
	}
	proof := &BinaryEncryptionProof{}
	copy(proof.Branches[:], branches)
	return proof, nil
}

func (p *BinaryEncryptionProof) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Branches[:])
}

// UnmarshalRangeProofJSON decodes a RangeProof whose elements belong to g.
func UnmarshalRangeProofJSON(b []byte, g group.Group) (*RangeProof, error) {
	var raw []branchProofJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	branches, err := unmarshalBranches(raw, g)
	if err != nil {
		return nil, err
	}
	return &RangeProof{Branches: branches}, nil
}

func (p *RangeProof) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Branches)
}
