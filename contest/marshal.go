package contest

import (
	"encoding/json"
	"fmt"

	"github.com/takakv/egcontest/elgamal"
	"github.com/takakv/egcontest/group"
	"github.com/takakv/egcontest/hash"
	"github.com/takakv/egcontest/zkp"
)

type contestEncryptedJSON struct {
	Selection              []json.RawMessage `json:"selection"`
	ContestHash            hash.HValue       `json:"contest_hash"`
	ProofBallotCorrectness []json.RawMessage `json:"proof_ballot_correctness"`
	ProofSelectionLimit    json.RawMessage   `json:"proof_selection_limit"`
}

func marshalAll[T any](items []T) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(items))
	for i, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func (ce *ContestEncrypted) MarshalJSON() ([]byte, error) {
	selection, err := marshalAll(ce.Selection)
	if err != nil {
		return nil, err
	}
	proofs, err := marshalAll(ce.ProofBallotCorrectness)
	if err != nil {
		return nil, err
	}
	limit, err := json.Marshal(ce.ProofSelectionLimit)
	if err != nil {
		return nil, err
	}
	return json.Marshal(contestEncryptedJSON{
		Selection:              selection,
		ContestHash:            ce.ContestHash,
		ProofBallotCorrectness: proofs,
		ProofSelectionLimit:    limit,
	})
}

func unmarshalSelection(raw []json.RawMessage, g group.Group) ([]elgamal.Ciphertext, error) {
	selection := make([]elgamal.Ciphertext, len(raw))
	for i, b := range raw {
		ct, err := elgamal.UnmarshalCiphertextJSON(b, g)
		if err != nil {
			return nil, fmt.Errorf("selection %d: %w", i+1, err)
		}
		selection[i] = ct
	}
	return selection, nil
}

// UnmarshalJSON decodes an encrypted contest whose elements belong to g.
func UnmarshalJSON(data []byte, g group.Group) (*ContestEncrypted, error) {
	tmp := contestEncryptedJSON{}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return nil, err
	}

	selection, err := unmarshalSelection(tmp.Selection, g)
	if err != nil {
		return nil, err
	}
	proofs := make([]*zkp.BinaryEncryptionProof, len(tmp.ProofBallotCorrectness))
	for i, b := range tmp.ProofBallotCorrectness {
		proofs[i], err = zkp.UnmarshalBinaryProofJSON(b, g)
		if err != nil {
			return nil, fmt.Errorf("ballot correctness proof %d: %w", i+1, err)
		}
	}
	limit, err := zkp.UnmarshalRangeProofJSON(tmp.ProofSelectionLimit, g)
	if err != nil {
		return nil, fmt.Errorf("selection limit proof: %w", err)
	}

	return &ContestEncrypted{
		Selection:              selection,
		ContestHash:            tmp.ContestHash,
		ProofBallotCorrectness: proofs,
		ProofSelectionLimit:    limit,
	}, nil
}

type scaledContestJSON struct {
	Selection []json.RawMessage `json:"selection"`
}

func (sc *ScaledContestEncrypted) MarshalJSON() ([]byte, error) {
	selection, err := marshalAll(sc.Selection)
	if err != nil {
		return nil, err
	}
	return json.Marshal(scaledContestJSON{Selection: selection})
}

// UnmarshalScaledJSON decodes a scaled contest whose elements belong to g.
func UnmarshalScaledJSON(data []byte, g group.Group) (*ScaledContestEncrypted, error) {
	tmp := scaledContestJSON{}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return nil, err
	}
	selection, err := unmarshalSelection(tmp.Selection, g)
	if err != nil {
		return nil, err
	}
	return &ScaledContestEncrypted{Selection: selection}, nil
}
