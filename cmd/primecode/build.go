package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Neumenon/primecode/primecode"
	"github.com/Neumenon/primecode/stream"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) buildCmd() *cobra.Command {
	var (
		dict       dictFlags
		seed       uint64
		multiplier int
	)
	cmd := &cobra.Command{
		Use:   "build [files...]",
		Short: "Build a dictionary from the alphabet of the input text",
		Long: `Collects every distinct character of the input (newlines excluded),
assigns each one a layered prime code and writes the forward and inverted
dictionaries. Files ending in .zst or .lz4 are read and written compressed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if err := dict.apply(fs, a.cfg); err != nil {
				return err
			}
			if fs.Changed("seed") {
				a.cfg.Build.Seed = seed
			}
			if fs.Changed("prime-multiplier") {
				a.cfg.Build.PrimeMultiplier = multiplier
			}
			return a.runBuild(cmd, args)
		},
	}
	dict.register(cmd.Flags(), true, true)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Shuffle seed (0 draws a random one)")
	cmd.Flags().IntVar(&multiplier, "prime-multiplier", primecode.DefaultPrimeMultiplier, "Prime pool size as a multiple of the alphabet size")
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, args []string) error {
	input, closeInput, err := openInputs(cmd, args)
	if err != nil {
		return err
	}
	symbols, err := primecode.ReadAlphabet(input)
	closeInput()
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	forwardPath, invertedPath := a.cfg.ForwardPath(), a.cfg.InvertedPath()
	sink, err := stream.CreateFileSink(forwardPath, invertedPath)
	if err != nil {
		return err
	}

	opts := []primecode.Option{
		primecode.WithSink(sink),
		primecode.WithLogger(a.logger),
		primecode.WithPrimeMultiplier(a.cfg.Build.PrimeMultiplier),
	}
	if a.cfg.Build.Seed != 0 {
		opts = append(opts, primecode.WithSeed(a.cfg.Build.Seed))
	}

	d, _, buildErr := primecode.Build(symbols, opts...)
	if err := errors.Join(buildErr, sink.Close()); err != nil {
		// Half written files would load as a smaller, valid dictionary.
		_ = os.Remove(forwardPath)
		_ = os.Remove(invertedPath)
		return fmt.Errorf("build dictionary: %w", err)
	}

	a.logger.Info("dictionary written",
		zap.String("forward", forwardPath),
		zap.String("inverted", invertedPath))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "symbols:     %d\n", d.Len())
	fmt.Fprintf(out, "layers:      %d\n", d.Depth())
	fmt.Fprintf(out, "dictionary:  %s\n", forwardPath)
	fmt.Fprintf(out, "inverted:    %s\n", invertedPath)
	fmt.Fprintf(out, "fingerprint: %s\n", stream.Fingerprint(d))
	return nil
}

// openInputs concatenates the named files, or returns stdin when there are
// none or the only name is "-". Files are separated by a newline so the last
// line of one file never runs into the first line of the next.
func openInputs(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		return cmd.InOrStdin(), func() {}, nil
	}

	var (
		readers []io.Reader
		closers []io.Closer
	)
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
	for i, name := range args {
		rc, err := stream.Open(name)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, rc)
		if i > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}
		readers = append(readers, rc)
	}
	return io.MultiReader(readers...), closeAll, nil
}
