// Package zkp implements the non-interactive disjunctive Chaum-Pedersen
// proofs attached to encrypted contests: the per-option proof that a
// ciphertext encrypts 0 or 1, and the per-contest proof that the sum of the
// selections does not exceed the selection limit.
//
// Both are instances of one protocol. For a ciphertext (alpha, beta) under K,
// branch j claims alpha = g^xi and beta - j*G = K^xi for a common xi. Exactly
// one branch is proved with the real nonce; every other branch is simulated
// by choosing its challenge and response first. The Fiat-Shamir challenge c
// is derived from the full transcript and the real branch takes
// c - sum(simulated challenges).
package zkp

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/takakv/egcontest/elgamal"
	"github.com/takakv/egcontest/group"
	"github.com/takakv/egcontest/log"
	"github.com/takakv/egcontest/params"
)

var (
	// ErrInvalidWitness is returned when the claimed plaintext is not one
	// of the values the proof covers.
	ErrInvalidWitness = errors.New("plaintext outside the proven range")
	// ErrRandomness is returned when the random source fails.
	ErrRandomness = errors.New("random source failed")
)

// BranchProof is the transcript of one branch: the commitments A = g^u and
// B = K^u, the branch challenge and the response.
type BranchProof struct {
	A         group.Element
	B         group.Element
	Challenge *big.Int
	Response  *big.Int
}

// branch is the prover's plan for one disjunct, either realBranch or
// simulatedBranch.
type branch interface {
	isBranch()
}

// realBranch is proved honestly from the commitment randomness u.
type realBranch struct {
	u *big.Int
}

// simulatedBranch has its challenge and response fixed before the
// commitments are solved for.
type simulatedBranch struct {
	challenge *big.Int
	response  *big.Int
}

func (realBranch) isBranch()      {}
func (simulatedBranch) isBranch() {}

// statement is the public part of the proof: the ciphertext and the key it
// was encrypted under.
type statement struct {
	fp *params.FixedParameters
	k  group.Element
	ct elgamal.Ciphertext
}

// shifted returns beta - j*G, which equals K^xi when the ciphertext encrypts j.
func (s statement) shifted(j int) group.Element {
	gj := s.fp.GPow(big.NewInt(int64(j)))
	return s.fp.Group.Element().Subtract(s.ct.Beta, gj)
}

// valid reports whether all public elements are present and in the group.
func (s statement) valid() bool {
	return s.fp != nil && s.k != nil && s.k.IsValid() && s.ct.IsValid()
}

// challengeFunc hashes the transcript including every branch commitment.
type challengeFunc func(branches []BranchProof) *big.Int

// plan returns n branches where only branches[real] is a realBranch.
func plan(fp *params.FixedParameters, rng io.Reader, n, real int) ([]branch, error) {
	if real < 0 || real >= n {
		return nil, ErrInvalidWitness
	}
	branches := make([]branch, n)
	for j := range branches {
		if j == real {
			u, err := fp.Field.Random(rng)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrRandomness, err)
			}
			branches[j] = realBranch{u: u}
			continue
		}
		c, err := fp.Field.Random(rng)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRandomness, err)
		}
		v, err := fp.Field.Random(rng)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRandomness, err)
		}
		branches[j] = simulatedBranch{challenge: c, response: v}
	}
	return branches, nil
}

// prove builds the n-branch proof that s encrypts value with nonce xi.
func prove(s statement, xi *big.Int, value, n int, rng io.Reader, challenge challengeFunc) ([]BranchProof, error) {
	branches, err := plan(s.fp, rng, n, value)
	if err != nil {
		return nil, err
	}

	fp := s.fp
	proofs := make([]BranchProof, n)
	simulated := fp.Field.Zero()
	for j, br := range branches {
		switch br := br.(type) {
		case realBranch:
			proofs[j].A = fp.GPow(br.u)
			proofs[j].B = fp.Group.Element().Scale(s.k, br.u)
		case simulatedBranch:
			// A = g^v - c*alpha, B = K^v - c*(beta - j*G)
			ca := fp.Group.Element().Scale(s.ct.Alpha, br.challenge)
			gv := fp.GPow(br.response)
			proofs[j].A = gv.Subtract(gv, ca)
			cb := fp.Group.Element().Scale(s.shifted(j), br.challenge)
			kv := fp.Group.Element().Scale(s.k, br.response)
			proofs[j].B = kv.Subtract(kv, cb)
			proofs[j].Challenge = br.challenge
			proofs[j].Response = br.response
			simulated = fp.Field.Add(simulated, br.challenge)
		}
	}

	c := challenge(proofs)
	for j, br := range branches {
		if br, ok := br.(realBranch); ok {
			cj := fp.Field.Sub(c, simulated)
			proofs[j].Challenge = cj
			proofs[j].Response = fp.Field.Add(br.u, fp.Field.Mul(cj, xi))
		}
	}
	return proofs, nil
}

// verify checks an n-branch proof. Malformed input, including elements of a
// different group, yields false.
func verify(s statement, proofs []BranchProof, n int, challenge challengeFunc) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Debugw("proof rejected", "reason", "malformed input", "panic", fmt.Sprint(r))
			ok = false
		}
	}()

	if !s.valid() {
		log.Debugw("proof rejected", "reason", "invalid statement")
		return false
	}
	if len(proofs) != n {
		log.Debugw("proof rejected", "reason", "branch count", "got", len(proofs), "want", n)
		return false
	}

	fp := s.fp
	sum := fp.Field.Zero()
	for j, p := range proofs {
		if p.A == nil || p.B == nil || !p.A.IsValid() || !p.B.IsValid() ||
			!fp.Field.Contains(p.Challenge) || !fp.Field.Contains(p.Response) {
			log.Debugw("proof rejected", "reason", "malformed branch", "branch", j)
			return false
		}
		sum = fp.Field.Add(sum, p.Challenge)
	}

	if c := challenge(proofs); c.Cmp(sum) != 0 {
		log.Debugw("proof rejected", "reason", "challenge mismatch")
		return false
	}

	for j, p := range proofs {
		// g^v == A + c*alpha
		lhs := fp.GPow(p.Response)
		rhs := fp.Group.Element().Scale(s.ct.Alpha, p.Challenge)
		rhs.Add(p.A, rhs)
		if !lhs.IsEqual(rhs) {
			log.Debugw("proof rejected", "reason", "alpha equation", "branch", j)
			return false
		}

		// K^v == B + c*(beta - j*G)
		lhs = fp.Group.Element().Scale(s.k, p.Response)
		rhs = fp.Group.Element().Scale(s.shifted(j), p.Challenge)
		rhs.Add(p.B, rhs)
		if !lhs.IsEqual(rhs) {
			log.Debugw("proof rejected", "reason", "beta equation", "branch", j)
			return false
		}
	}
	return true
}
