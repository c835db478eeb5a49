package elgamal

import (
	"encoding/json"
	"fmt"

	"github.com/takakv/egcontest/group"
)

type ciphertextJSON struct {
	Alpha json.RawMessage `json:"alpha"`
	Beta  json.RawMessage `json:"beta"`
}

func (ct Ciphertext) MarshalJSON() ([]byte, error) {
	alpha, err := json.Marshal(ct.Alpha)
	if err != nil {
		return nil, err
	}
	beta, err := json.Marshal(ct.Beta)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ciphertextJSON{Alpha: alpha, Beta: beta})
}

// UnmarshalCiphertextJSON decodes a ciphertext whose components belong to g.
func UnmarshalCiphertextJSON(b []byte, g group.Group) (Ciphertext, error) {
	tmp := ciphertextJSON{}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return Ciphertext{}, err
	}

	ct := Ciphertext{
		Alpha: g.Element(),
		Beta:  g.Element(),
	}
	if err := ct.Alpha.UnmarshalJSON(tmp.Alpha); err != nil {
		return Ciphertext{}, fmt.Errorf("alpha: %w", err)
	}
	if err := ct.Beta.UnmarshalJSON(tmp.Beta); err != nil {
		return Ciphertext{}, fmt.Errorf("beta: %w", err)
	}
	return ct, nil
}

func (pk PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(pk.K)
}

// UnmarshalPublicKeyJSON decodes a public key in g.
func UnmarshalPublicKeyJSON(b []byte, g group.Group) (PublicKey, error) {
	k := g.Element()
	if err := k.UnmarshalJSON(b); err != nil {
		return PublicKey{}, err
	}
	if !k.IsValid() {
		return PublicKey{}, fmt.Errorf("%w: public key not in group", group.ErrInvalidEncoding)
	}
	return PublicKey{K: k}, nil
}
