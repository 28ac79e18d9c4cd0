// primecode - layered prime-code text codec CLI
//
// Usage:
//
//	primecode build [files...]       Build a dictionary from the alphabet of the input
//	primecode encode [file]          Encode text with the forward dictionary
//	primecode decode [file]          Decode code lines with the inverted dictionary
//	primecode inspect                Print layer sizes and the dictionary fingerprint
//	primecode snapshot               Write a CBOR snapshot of the dictionary
//	primecode restore <snapshot>     Rewrite both dictionary files from a snapshot
//	primecode version                Print version info
//
// Dictionary paths, compression, seed and decode policy come from
// primecode.yaml (see --config) and can be overridden per command.
//
// If no file is given, reads from stdin.
package main

import (
	"fmt"
	"os"

	"github.com/Neumenon/primecode/internal/config"
	"github.com/Neumenon/primecode/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	libVersion    = "0.1.0"
	formatVersion = "jsonl-1"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool
	logFormat  string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "primecode",
		Short: "Layered prime-code text codec",
		Long: `primecode assigns every symbol of a text alphabet a code built from
primes arranged in binary layers: each code is its parent's code times a
fresh prime. Text is encoded as comma separated decimal codes, one line per
input line, and decoded with the inverted dictionary.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "primecode.yaml", "Config file (missing file means defaults)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: console or json (overrides config)")

	root.AddCommand(
		a.buildCmd(),
		a.encodeCmd(),
		a.decodeCmd(),
		a.inspectCmd(),
		a.snapshotCmd(),
		a.restoreCmd(),
		versionCmd(),
	)
	return root
}

// init loads configuration and builds the logger.
func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "primecode %s (dictionary format %s)\n", libVersion, formatVersion)
		},
	}
}
