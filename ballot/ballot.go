// Package ballot encrypts and verifies all the contests of a ballot.
package ballot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/takakv/egcontest/contest"
	"github.com/takakv/egcontest/election"
	"github.com/takakv/egcontest/group"
	"github.com/takakv/egcontest/log"
)

// ErrContestCount is returned when the number of selections does not match
// the number of contests.
var ErrContestCount = errors.New("selection count does not match contest count")

var errRejected = errors.New("contest rejected")

// Ballot is an encrypted ballot. Contests[i] encrypts the contest at 1-based
// index i+1.
type Ballot struct {
	Contests []*contest.ContestEncrypted `json:"contests"`
}

// Encrypt encrypts one selection per contest. Option nonces are derived from
// primaryNonce, so the same nonce reproduces the same ciphertexts.
func Encrypt(enc *contest.Encryptor, primaryNonce []byte, contests []election.Contest, selections []contest.Selection) (*Ballot, error) {
	if len(contests) != len(selections) {
		return nil, fmt.Errorf("%w: %d selections for %d contests", ErrContestCount, len(selections), len(contests))
	}
	b := &Ballot{Contests: make([]*contest.ContestEncrypted, len(contests))}
	for i, c := range contests {
		index, err := election.IndexOf(i)
		if err != nil {
			return nil, err
		}
		ce, err := enc.Encrypt(primaryNonce, c, index, selections[i])
		if err != nil {
			return nil, fmt.Errorf("contest %d (%s): %w", index, c.Label, err)
		}
		b.Contests[i] = ce
	}
	return b, nil
}

// Verify checks every contest of the ballot against its description, using up
// to workers goroutines (workers <= 0 means one per contest). It returns false
// as soon as one contest fails or ctx is done.
func (b *Ballot) Verify(ctx context.Context, header *election.Header, contests []election.Contest, workers int) bool {
	if b == nil || len(b.Contests) != len(contests) {
		log.Debugw("ballot rejected", "reason", "contest count")
		return false
	}

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range contests {
		i := i
		index, err := election.IndexOf(i)
		if err != nil {
			return false
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !b.Contests[i].Verify(header, index, contests[i].SelectionLimit) {
				return fmt.Errorf("%w: %d", errRejected, index)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Debugw("ballot rejected", "reason", err.Error())
		return false
	}
	return true
}

// VerifyAll verifies the ballots in parallel, using up to workers goroutines,
// and returns one result per ballot. Contests of a single ballot are checked
// sequentially. Ballots not checked before ctx is done are reported false.
func VerifyAll(ctx context.Context, header *election.Header, contests []election.Contest, ballots []*Ballot, workers int) []bool {
	results := make([]bool, len(ballots))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, b := range ballots {
		i, b := i, b
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = b.Verify(ctx, header, contests, 1)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

type ballotJSON struct {
	Contests []json.RawMessage `json:"contests"`
}

// UnmarshalJSON decodes a ballot whose elements belong to g.
func UnmarshalJSON(data []byte, g group.Group) (*Ballot, error) {
	var tmp ballotJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return nil, err
	}
	b := &Ballot{Contests: make([]*contest.ContestEncrypted, len(tmp.Contests))}
	for i, raw := range tmp.Contests {
		ce, err := contest.UnmarshalJSON(raw, g)
		if err != nil {
			return nil, fmt.Errorf("contest %d: %w", i+1, err)
		}
		b.Contests[i] = ce
	}
	return b, nil
}
