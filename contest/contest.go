// Package contest encrypts a voter's selections in one contest, proves them
// well formed, verifies such encryptions, and scales them for weighted
// tallies.
package contest

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/takakv/egcontest/election"
	"github.com/takakv/egcontest/elgamal"
	"github.com/takakv/egcontest/hash"
	"github.com/takakv/egcontest/log"
	"github.com/takakv/egcontest/nonce"
	"github.com/takakv/egcontest/params"
	"github.com/takakv/egcontest/zkp"
)

var (
	ErrNoOptions             = errors.New("contest has no options")
	ErrSelectionLength       = errors.New("selection length does not match option count")
	ErrInvalidSelectionValue = errors.New("selection value is not 0 or 1")
	ErrSelectionLimit        = errors.New("selection limit exceeded")
	ErrIndexOutOfRange       = election.ErrIndexOutOfRange
)

// Selection is a voter's plaintext choice, one 0 or 1 per option in option
// order.
type Selection []uint8

// ContestEncrypted is an encrypted contest. Selection and
// ProofBallotCorrectness are in option order.
type ContestEncrypted struct {
	Selection              []elgamal.Ciphertext
	ContestHash            hash.HValue
	ProofBallotCorrectness []*zkp.BinaryEncryptionProof
	ProofSelectionLimit    *zkp.RangeProof
}

// ScaledContestEncrypted holds the option ciphertexts of a ContestEncrypted
// scaled by a public factor. It carries no proofs: whoever scaled it vouches
// for it.
type ScaledContestEncrypted struct {
	Selection []elgamal.Ciphertext
}

// Encryptor encrypts contests for one election.
type Encryptor struct {
	Header  *election.Header
	Deriver nonce.Deriver
	// Rand supplies the proof randomness. It must not be shared with
	// concurrent encryptions unless it is safe for concurrent use.
	Rand io.Reader
}

// NewEncryptor returns an Encryptor using the hash nonce derivation.
func NewEncryptor(header *election.Header, rng io.Reader) *Encryptor {
	return &Encryptor{Header: header, Deriver: nonce.Hash, Rand: rng}
}

func validate(c election.Contest, index election.Index, selection Selection) (uint32, error) {
	if index == 0 {
		return 0, fmt.Errorf("%w: contest index is 1-based", ErrIndexOutOfRange)
	}
	if len(c.Options) == 0 {
		return 0, ErrNoOptions
	}
	if len(selection) != len(c.Options) {
		return 0, fmt.Errorf("%w: %d values for %d options", ErrSelectionLength, len(selection), len(c.Options))
	}
	if _, err := election.IndexOf(len(selection) - 1); err != nil {
		return 0, err
	}

	var count uint32
	for i, v := range selection {
		if v > 1 {
			return 0, fmt.Errorf("%w: option %d has value %d", ErrInvalidSelectionValue, i+1, v)
		}
		count += uint32(v)
	}
	if count > c.SelectionLimit {
		return 0, fmt.Errorf("%w: %d selections, limit %d", ErrSelectionLimit, count, c.SelectionLimit)
	}
	return count, nil
}

// Encrypt encrypts selection for contest c at position index of the ballot.
// Option nonces are derived from primaryNonce.
func (e *Encryptor) Encrypt(primaryNonce []byte, c election.Contest, index election.Index, selection Selection) (*ContestEncrypted, error) {
	start := time.Now()
	numSelections, err := validate(c, index, selection)
	if err != nil {
		return nil, err
	}

	header := e.Header
	fp := header.Parameters
	pairs := make([]elgamal.NoncedCiphertext, len(selection))
	proofs := make([]*zkp.BinaryEncryptionProof, len(selection))
	cts := make([]elgamal.Ciphertext, len(selection))
	for i, v := range selection {
		option, err := election.IndexOf(i)
		if err != nil {
			return nil, err
		}
		optionNonce := e.Deriver.Derive(header, primaryNonce, index, option)
		ct := header.PublicKey.Encrypt(fp, optionNonce, uint64(v))

		proof, err := zkp.ProveBinary(header, e.Rand, ct, optionNonce, uint64(v), index, option)
		if err != nil {
			return nil, fmt.Errorf("option %d: %w", option, err)
		}
		pairs[i] = elgamal.NoncedCiphertext{Ciphertext: ct, Nonce: optionNonce}
		proofs[i] = proof
		cts[i] = ct
	}

	combined, combinedNonce, err := elgamal.CombineWithNonces(fp, pairs)
	if err != nil {
		return nil, err
	}
	rangeProof, err := zkp.ProveRange(header, e.Rand, combined, combinedNonce, numSelections, c.SelectionLimit, index)
	if err != nil {
		return nil, fmt.Errorf("selection limit proof: %w", err)
	}

	log.Debugw("contest encrypted", "contest", uint32(index), "options", len(selection),
		"limit", c.SelectionLimit, "elapsed", time.Since(start).String())
	return &ContestEncrypted{
		Selection:              cts,
		ContestHash:            Hash(header, index, cts),
		ProofBallotCorrectness: proofs,
		ProofSelectionLimit:    rangeProof,
	}, nil
}

// Hash computes the contest hash H(H_E; 0x23 || index || K || alpha_1 ||
// beta_1 || ...) over the option ciphertexts.
func Hash(header *election.Header, index election.Index, selection []elgamal.Ciphertext) hash.HValue {
	t := hash.NewTranscript(hash.TagContestHash).
		WriteUint32(uint32(index)).
		WriteElements(header.PublicKey.K)
	for _, ct := range selection {
		t.WriteElements(ct.Alpha, ct.Beta)
	}
	return t.Sum(header.ExtendedBaseHash)
}

// Verify reports whether ce is a well formed encryption of contest index with
// the given selection limit: every option ciphertext encrypts 0 or 1, their
// sum is at most limit, and the contest hash matches. It never panics and
// does not say which check failed; the reason is logged at debug level.
func (ce *ContestEncrypted) Verify(header *election.Header, index election.Index, limit uint32) (ok bool) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Debugw("contest rejected", "contest", uint32(index), "reason", "malformed input", "panic", fmt.Sprint(r))
			ok = false
		}
	}()

	if ce == nil || header == nil || header.Parameters == nil {
		return false
	}
	if len(ce.Selection) == 0 || len(ce.Selection) != len(ce.ProofBallotCorrectness) {
		log.Debugw("contest rejected", "contest", uint32(index), "reason", "proof count",
			"selections", len(ce.Selection), "proofs", len(ce.ProofBallotCorrectness))
		return false
	}
	for i, ct := range ce.Selection {
		if !ct.IsValid() {
			log.Debugw("contest rejected", "contest", uint32(index), "reason", "invalid ciphertext", "option", i+1)
			return false
		}
	}
	if Hash(header, index, ce.Selection) != ce.ContestHash {
		log.Debugw("contest rejected", "contest", uint32(index), "reason", "contest hash")
		return false
	}

	for i, ct := range ce.Selection {
		option, err := election.IndexOf(i)
		if err != nil {
			return false
		}
		if !ce.ProofBallotCorrectness[i].Verify(header, ct, index, option) {
			log.Debugw("contest rejected", "contest", uint32(index), "reason", "ballot correctness", "option", uint32(option))
			return false
		}
	}

	combined, err := elgamal.Combine(header.Parameters, ce.Selection)
	if err != nil {
		return false
	}
	if !ce.ProofSelectionLimit.Verify(header, combined, limit, index) {
		log.Debugw("contest rejected", "contest", uint32(index), "reason", "selection limit")
		return false
	}

	log.Debugw("contest verified", "contest", uint32(index), "elapsed", time.Since(start).String())
	return true
}

// Scale multiplies the plaintext of every option ciphertext by factor.
func (ce *ContestEncrypted) Scale(fp *params.FixedParameters, factor *big.Int) *ScaledContestEncrypted {
	selection := make([]elgamal.Ciphertext, len(ce.Selection))
	for i, ct := range ce.Selection {
		selection[i] = ct.Scale(fp, factor)
	}
	return &ScaledContestEncrypted{Selection: selection}
}
