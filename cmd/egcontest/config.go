package main

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/takakv/egcontest/params"
)

const (
	defaultMode      = "demo"
	defaultParams    = params.Standard
	defaultSelection = "1,0,0"
	defaultLimit     = 1
	defaultLogLevel  = "error"
	defaultLogOutput = "stderr"
)

var modes = []string{"demo", "encrypt", "verify", "bench"}

// Config holds the application configuration
type Config struct {
	Mode      string    `mapstructure:"mode"`
	Params    string    `mapstructure:"params"`
	Selection []int     `mapstructure:"selection"`
	Limit     uint32    `mapstructure:"limit"`
	Contest   uint32    `mapstructure:"contest"`
	Seed      string    `mapstructure:"seed"`
	Ballots   int       `mapstructure:"ballots"`
	Workers   int       `mapstructure:"workers"`
	File      string    `mapstructure:"file"`
	Log       LogConfig `mapstructure:"log"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// loadConfig loads configuration from flags, environment variables, and defaults
func loadConfig(args []string) (*Config, error) {
	v := viper.New()

	v.SetDefault("mode", defaultMode)
	v.SetDefault("params", defaultParams)
	v.SetDefault("selection", []int{1, 0, 0})
	v.SetDefault("limit", defaultLimit)
	v.SetDefault("contest", 1)
	v.SetDefault("ballots", 100)
	v.SetDefault("workers", 0)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)

	fs := flag.NewFlagSet("egcontest", flag.ContinueOnError)
	fs.StringP("mode", "m", defaultMode, fmt.Sprintf("what to run %v", modes))
	fs.StringP("params", "p", defaultParams, fmt.Sprintf("parameter set %v", params.Available()))
	fs.IntSliceP("selection", "s", []int{1, 0, 0}, "plaintext selection, one 0 or 1 per option, comma-separated")
	fs.Uint32P("limit", "L", defaultLimit, "contest selection limit")
	fs.Uint32P("contest", "c", 1, "1-based contest index")
	fs.String("seed", "", "hex seed of the random source, empty for system randomness")
	fs.IntP("ballots", "n", 100, "number of ballots in bench mode")
	fs.IntP("workers", "w", 0, "verification goroutines, 0 for one per ballot")
	fs.StringP("file", "f", "", "encrypted contest file written by encrypt and read by verify")
	fs.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")
	fs.StringP("log.output", "o", defaultLogOutput, "log output (stdout, stderr or filepath)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: egcontest [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables are also available with the same name as flags,\n")
		fmt.Fprintf(os.Stderr, "  except for dots (.) which are replaced by underscores (_).\n")
		fmt.Fprintf(os.Stderr, "  For example, EGCONTEST_PARAMS or EGCONTEST_LOG_LEVEL\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  egcontest --params=toy --selection=0,1,1 --limit=2\n")
		fmt.Fprintf(os.Stderr, "  egcontest -m encrypt -f contest.json && egcontest -m verify -f contest.json\n")
		fmt.Fprintf(os.Stderr, "  egcontest -m bench -p p256 -n 1000 -w 8\n")
	}

	fs.SortFlags = false
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("EGCONTEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, validateConfig(cfg)
}

// validateConfig validates the loaded configuration
func validateConfig(cfg *Config) error {
	validMode := false
	for _, m := range modes {
		if cfg.Mode == m {
			validMode = true
			break
		}
	}
	if !validMode {
		return fmt.Errorf("invalid mode %s, available modes: %v", cfg.Mode, modes)
	}
	if cfg.Contest == 0 {
		return fmt.Errorf("contest index is 1-based")
	}
	if (cfg.Mode == "encrypt" || cfg.Mode == "verify") && cfg.File == "" {
		return fmt.Errorf("mode %s requires --file", cfg.Mode)
	}
	if cfg.Mode == "verify" {
		return nil
	}
	if len(cfg.Selection) == 0 {
		return fmt.Errorf("selection is empty")
	}
	for _, s := range cfg.Selection {
		if s != 0 && s != 1 {
			return fmt.Errorf("invalid selection value %d, must be 0 or 1", s)
		}
	}
	if cfg.Ballots <= 0 {
		return fmt.Errorf("ballots must be positive")
	}
	return nil
}
