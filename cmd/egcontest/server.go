package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/schollz/progressbar/v3"

	"github.com/takakv/egcontest/ballot"
	"github.com/takakv/egcontest/contest"
	"github.com/takakv/egcontest/election"
	"github.com/takakv/egcontest/elgamal"
	"github.com/takakv/egcontest/log"
)

// contestFile is the on-disk form of an encrypted contest together with the
// public material needed to verify it.
type contestFile struct {
	Header    *election.Header `json:"header"`
	Contest   election.Contest `json:"contest"`
	Index     election.Index   `json:"index"`
	Encrypted json.RawMessage  `json:"encrypted"`
}

func verifyContest(pp *PublicParameters, ce *contest.ContestEncrypted) bool {
	start := time.Now()
	result := ce.Verify(pp.Header, pp.Index, pp.Contest.SelectionLimit)
	fmt.Println("Verify time:", time.Since(start))
	return result
}

// checkDecryption decrypts every option ciphertext and compares it with the
// selection that was cast.
func checkDecryption(pp *PublicParameters, ce *contest.ContestEncrypted, sel contest.Selection) error {
	for i, ct := range ce.Selection {
		m, err := pp.PrivateKey.Decrypt(pp.Header.Parameters, ct, 1)
		if err != nil {
			return fmt.Errorf("option %d: %w", i+1, err)
		}
		if m != uint64(sel[i]) {
			return fmt.Errorf("option %d decrypts to %d, cast %d", i+1, m, sel[i])
		}
	}
	return nil
}

func writeFile(path string, pp *PublicParameters, ce *contest.ContestEncrypted) error {
	enc, err := json.Marshal(ce)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(contestFile{
		Header:    pp.Header,
		Contest:   pp.Contest,
		Index:     pp.Index,
		Encrypted: enc,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func readFile(path string) (*contestFile, *contest.ContestEncrypted, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var raw struct {
		Header    json.RawMessage  `json:"header"`
		Contest   election.Contest `json:"contest"`
		Index     election.Index   `json:"index"`
		Encrypted json.RawMessage  `json:"encrypted"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, nil, err
	}
	header, err := election.UnmarshalHeaderJSON(raw.Header)
	if err != nil {
		return nil, nil, fmt.Errorf("header: %w", err)
	}
	ce, err := contest.UnmarshalJSON(raw.Encrypted, header.Parameters.Group)
	if err != nil {
		return nil, nil, fmt.Errorf("encrypted contest: %w", err)
	}
	return &contestFile{Header: header, Contest: raw.Contest, Index: raw.Index}, ce, nil
}

func verifyFile(path string) error {
	f, ce, err := readFile(path)
	if err != nil {
		return err
	}
	pp := &PublicParameters{Header: f.Header, Contest: f.Contest, Index: f.Index}
	if !verifyContest(pp, ce) {
		return fmt.Errorf("contest %d of %s is not correctly formed", f.Index, path)
	}
	ok(fmt.Sprintf("contest %d (%s) is correctly formed", f.Index, f.Contest.Label))
	return nil
}

// bench casts cfg.Ballots random single-contest ballots, verifies them in
// parallel and checks that their homomorphic tally decrypts to the cast
// totals.
func bench(ctx context.Context, pp *PublicParameters, rng io.Reader, cfg *Config) error {
	contests := []election.Contest{pp.Contest}
	enc := contest.NewEncryptor(pp.Header, rng)
	fp := pp.Header.Parameters

	ballots := make([]*ballot.Ballot, cfg.Ballots)
	expected := make([]uint64, len(pp.Contest.Options))

	fmt.Printf("\nEncrypting %d ballots:\n\n", cfg.Ballots)
	bar := progressbar.Default(int64(cfg.Ballots))
	start := time.Now()
	for i := range ballots {
		sel, err := randomSelection(pp, rng)
		if err != nil {
			return err
		}
		for j, v := range sel {
			expected[j] += uint64(v)
		}
		b, err := ballot.Encrypt(enc, []byte(fmt.Sprintf("ballot %d", i)), contests, []contest.Selection{sel})
		if err != nil {
			return err
		}
		ballots[i] = b
		_ = bar.Add(1)
	}
	encryptTime := time.Since(start)

	fmt.Printf("\nVerifying with %d workers ...\n", cfg.Workers)
	start = time.Now()
	results := ballot.VerifyAll(ctx, pp.Header, contests, ballots, cfg.Workers)
	verifyTime := time.Since(start)
	for i, r := range results {
		if !r {
			return fmt.Errorf("ballot %d rejected", i)
		}
	}
	ok(fmt.Sprintf("%d ballots verified", len(ballots)))

	fmt.Printf("\nBallots homomorphic count ...\n")
	for j := range pp.Contest.Options {
		cts := make([]elgamal.Ciphertext, len(ballots))
		for i, b := range ballots {
			cts[i] = b.Contests[0].Selection[j]
		}
		sum, err := elgamal.Combine(fp, cts)
		if err != nil {
			return err
		}
		total, err := pp.PrivateKey.Decrypt(fp, sum, uint64(len(ballots)))
		if err != nil {
			return fmt.Errorf("option %d: %w", j+1, err)
		}
		if total != expected[j] {
			return fmt.Errorf("option %d tallies to %d, cast %d", j+1, total, expected[j])
		}
		color.Printf("%s: <suc>%d</>\n", pp.Contest.Options[j], total)
	}

	perBallot := func(d time.Duration) time.Duration { return d / time.Duration(len(ballots)) }
	fmt.Println()
	fmt.Println("Encrypt time:", encryptTime, "per ballot:", perBallot(encryptTime))
	fmt.Println("Verify time:", verifyTime, "per ballot:", perBallot(verifyTime))
	log.Infow("bench finished", "ballots", len(ballots), "params", fp.Name(),
		"encrypt", encryptTime.String(), "verify", verifyTime.String())
	return nil
}
