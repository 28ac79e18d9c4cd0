package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/Neumenon/primecode/primecode"
	"github.com/Neumenon/primecode/stream"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) encodeCmd() *cobra.Command {
	var (
		dict dictFlags
		out  string
	)
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode text with the forward dictionary",
		Long: `Replaces every character with its decimal code, joining codes with ",".
Characters the dictionary does not know are written through unchanged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dict.apply(cmd.Flags(), a.cfg); err != nil {
				return err
			}
			d, err := stream.ReadDictionaryFile(a.cfg.ForwardPath())
			if err != nil {
				return fmt.Errorf("load dictionary: %w", err)
			}
			a.logger.Debug("dictionary loaded",
				zap.String("path", a.cfg.ForwardPath()),
				zap.Int("symbols", d.Len()))

			enc := primecode.NewEncoder(d)
			return a.transform(cmd, args, out, enc.EncodeStream)
		},
	}
	dict.register(cmd.Flags(), true, false)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout; .zst/.lz4 compress)")
	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	var (
		dict     dictFlags
		out      string
		unmapped string
	)
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode code lines with the inverted dictionary",
		Long: `Splits each line on "," and replaces every known code with its
character. Unknown tokens are handled by --unmapped:
  drop      discard them
  literals  keep non-numeric tokens (characters written through by encode)
  keep      keep every unknown token verbatim`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("unmapped") {
				a.cfg.Codec.Unmapped = unmapped
			}
			if err := dict.apply(cmd.Flags(), a.cfg); err != nil {
				return err
			}
			inv, err := stream.ReadInvertedFile(a.cfg.InvertedPath())
			if err != nil {
				return fmt.Errorf("load inverted dictionary: %w", err)
			}
			policy := a.cfg.UnmappedPolicy()
			a.logger.Debug("inverted dictionary loaded",
				zap.String("path", a.cfg.InvertedPath()),
				zap.Int("codes", inv.Len()),
				zap.Stringer("unmapped", policy))

			dec := primecode.NewDecoder(inv, primecode.WithUnmappedPolicy(policy))
			return a.transform(cmd, args, out, dec.DecodeStream)
		},
	}
	dict.register(cmd.Flags(), false, true)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout; .zst/.lz4 compress)")
	cmd.Flags().StringVar(&unmapped, "unmapped", "drop", "Unknown token policy: drop, literals, keep")
	return cmd
}

// transform runs fn from the input (file argument or stdin) to the output
// (--out file or stdout).
func (a *app) transform(cmd *cobra.Command, args []string, out string, fn func(io.Writer, io.Reader) error) error {
	input, closeInput, err := openInputs(cmd, args)
	if err != nil {
		return err
	}
	defer closeInput()

	if out == "" || out == "-" {
		return fn(cmd.OutOrStdout(), input)
	}
	w, err := stream.Create(out)
	if err != nil {
		return err
	}
	return errors.Join(fn(w, input), w.Close())
}
