package main

import (
	"fmt"
	"io"
	"time"

	"github.com/takakv/egcontest/contest"
	"github.com/takakv/egcontest/log"
)

// castContest encrypts the selection with a fresh primary nonce.
func castContest(pp *PublicParameters, rng io.Reader, sel contest.Selection) (*contest.ContestEncrypted, error) {
	primaryNonce := make([]byte, 32)
	if _, err := io.ReadFull(rng, primaryNonce); err != nil {
		return nil, fmt.Errorf("primary nonce: %w", err)
	}

	start := time.Now()
	ce, err := contest.NewEncryptor(pp.Header, rng).Encrypt(primaryNonce, pp.Contest, pp.Index, sel)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)
	fmt.Println("Prove time:", duration)
	log.Infow("contest cast", "contest", uint32(pp.Index), "duration", duration.String())
	return ce, nil
}

// randomSelection draws a uniformly random selection that respects the
// selection limit.
func randomSelection(pp *PublicParameters, rng io.Reader) (contest.Selection, error) {
	sel := make(contest.Selection, len(pp.Contest.Options))
	b := make([]byte, len(sel))
	if _, err := io.ReadFull(rng, b); err != nil {
		return nil, err
	}
	var chosen uint32
	for i := range sel {
		if chosen >= pp.Contest.SelectionLimit {
			break
		}
		sel[i] = b[i] & 1
		chosen += uint32(sel[i])
	}
	return sel, nil
}
