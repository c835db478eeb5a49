package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"

	"github.com/takakv/egcontest/contest"
	"github.com/takakv/egcontest/csprng"
	"github.com/takakv/egcontest/election"
	"github.com/takakv/egcontest/elgamal"
	"github.com/takakv/egcontest/hash"
	"github.com/takakv/egcontest/log"
	"github.com/takakv/egcontest/params"
)

// PublicParameters are the election material shared by voters and the
// verifying server.
type PublicParameters struct {
	Header  *election.Header
	Contest election.Contest
	Index   election.Index
	// PrivateKey is only held to sanity check tallies in the demo.
	PrivateKey *elgamal.PrivateKey
}

func newRandom(seed string) (io.Reader, error) {
	if seed == "" {
		return csprng.NewRandom()
	}
	b, err := hex.DecodeString(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return csprng.New(b), nil
}

func setup(cfg *Config, rng io.Reader) (*PublicParameters, error) {
	fp, err := params.ByName(cfg.Params)
	if err != nil {
		return nil, err
	}

	// W.l.o.g. this secret is not known to any one party.
	sk, err := elgamal.GenerateKey(fp, rng)
	if err != nil {
		return nil, err
	}

	options := make([]string, len(cfg.Selection))
	for i := range options {
		options[i] = fmt.Sprintf("option %d", i+1)
	}
	c := election.Contest{
		Label:          "demo",
		SelectionLimit: cfg.Limit,
		Options:        options,
	}

	baseHash := hash.H(hash.HValue{}, []byte("egcontest demo manifest"))
	return &PublicParameters{
		Header:     election.NewHeader(fp, sk.Public, baseHash),
		Contest:    c,
		Index:      election.Index(cfg.Contest),
		PrivateKey: sk,
	}, nil
}

func selection(cfg *Config) contest.Selection {
	sel := make(contest.Selection, len(cfg.Selection))
	for i, v := range cfg.Selection {
		sel[i] = uint8(v)
	}
	return sel
}

func fail(msg string) {
	color.Printf("<error>FAIL</>\t%s\n", msg)
	os.Exit(1)
}

func ok(msg string) {
	color.Printf("<suc>OK</>\t%s\n", msg)
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.Output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.Mode == "verify" {
		if err := verifyFile(cfg.File); err != nil {
			fail(err.Error())
		}
		return
	}

	rng, err := newRandom(cfg.Seed)
	if err != nil {
		fail(err.Error())
	}
	pp, err := setup(cfg, rng)
	if err != nil {
		fail(err.Error())
	}
	color.Info.Printf("Parameters: %s, %d options, selection limit %d\n",
		pp.Header.Parameters.Name(), len(pp.Contest.Options), pp.Contest.SelectionLimit)

	switch cfg.Mode {
	case "demo":
		fmt.Println("Vote casting")
		ce, err := castContest(pp, rng, selection(cfg))
		if err != nil {
			fail(err.Error())
		}
		fmt.Println()
		fmt.Println("Vote verification")
		if !verifyContest(pp, ce) {
			fail("contest is not correctly formed")
		}
		ok("contest is correctly formed")
		if err := checkDecryption(pp, ce, selection(cfg)); err != nil {
			fail(err.Error())
		}
		ok("ciphertexts decrypt to the selection")
	case "encrypt":
		ce, err := castContest(pp, rng, selection(cfg))
		if err != nil {
			fail(err.Error())
		}
		if err := writeFile(cfg.File, pp, ce); err != nil {
			fail(err.Error())
		}
		ok("wrote " + cfg.File)
	case "bench":
		if err := bench(context.Background(), pp, rng, cfg); err != nil {
			fail(err.Error())
		}
	}
}
