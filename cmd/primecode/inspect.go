package main

import (
	"fmt"
	"os"

	"github.com/Neumenon/primecode/primecode"
	"github.com/Neumenon/primecode/stream"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) inspectCmd() *cobra.Command {
	var (
		dict  dictFlags
		check bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print layer sizes and the dictionary fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dict.apply(cmd.Flags(), a.cfg); err != nil {
				return err
			}
			d, err := stream.ReadDictionaryFile(a.cfg.ForwardPath())
			if err != nil {
				return fmt.Errorf("load dictionary: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dictionary:  %s\n", a.cfg.ForwardPath())
			fmt.Fprintf(out, "symbols:     %d\n", d.Len())
			fmt.Fprintf(out, "fingerprint: %s\n", stream.Fingerprint(d))
			for k := range d.Layers {
				l := &d.Layers[k]
				fmt.Fprintf(out, "%-12s %d/%d\n", l.Key()+":", l.Len(), primecode.Capacity(l.Index))
			}

			if !check {
				return nil
			}
			inv, err := stream.ReadInvertedFile(a.cfg.InvertedPath())
			if err != nil {
				return fmt.Errorf("load inverted dictionary: %w", err)
			}
			if err := inv.Inverts(d); err != nil {
				return fmt.Errorf("%s does not match %s: %w", a.cfg.InvertedPath(), a.cfg.ForwardPath(), err)
			}
			fmt.Fprintf(out, "inverted:    %s (consistent)\n", a.cfg.InvertedPath())
			return nil
		},
	}
	dict.register(cmd.Flags(), true, true)
	cmd.Flags().BoolVar(&check, "check", false, "Also load the inverted dictionary and verify it matches")
	return cmd
}

func (a *app) snapshotCmd() *cobra.Command {
	var (
		dict dictFlags
		out  string
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write a CBOR snapshot of the dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dict.apply(cmd.Flags(), a.cfg); err != nil {
				return err
			}
			d, err := stream.ReadDictionaryFile(a.cfg.ForwardPath())
			if err != nil {
				return fmt.Errorf("load dictionary: %w", err)
			}
			data, err := stream.MarshalSnapshot(d)
			if err != nil {
				return fmt.Errorf("encode snapshot: %w", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			a.logger.Info("snapshot written",
				zap.String("path", out),
				zap.Int("bytes", len(data)),
				zap.Int("symbols", d.Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot:    %s (%d bytes)\n", out, len(data))
			return nil
		},
	}
	dict.register(cmd.Flags(), true, false)
	cmd.Flags().StringVarP(&out, "out", "o", "dictionary.cbor", "Snapshot file")
	return cmd
}

func (a *app) restoreCmd() *cobra.Command {
	var dict dictFlags
	cmd := &cobra.Command{
		Use:   "restore <snapshot>",
		Short: "Rewrite both dictionary files from a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dict.apply(cmd.Flags(), a.cfg); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			d, err := stream.UnmarshalSnapshot(data)
			if err != nil {
				return err
			}
			inv, err := primecode.Invert(d)
			if err != nil {
				return err
			}

			sink, err := stream.CreateFileSink(a.cfg.ForwardPath(), a.cfg.InvertedPath())
			if err != nil {
				return err
			}
			if err := sink.WriteDictionary(d, inv); err != nil {
				sink.Close()
				return fmt.Errorf("write dictionary: %w", err)
			}
			if err := sink.Close(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dictionary:  %s\n", a.cfg.ForwardPath())
			fmt.Fprintf(out, "inverted:    %s\n", a.cfg.InvertedPath())
			fmt.Fprintf(out, "fingerprint: %s\n", stream.Fingerprint(d))
			return nil
		},
	}
	dict.register(cmd.Flags(), true, true)
	return cmd
}
