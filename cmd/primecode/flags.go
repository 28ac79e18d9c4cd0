package main

import (
	"github.com/Neumenon/primecode/internal/config"
	"github.com/spf13/pflag"
)

// dictFlags are the per-command overrides of the dictionary section of the
// config. Only flags the user actually set replace config values.
type dictFlags struct {
	forward     string
	inverted    string
	compression string
}

func (f *dictFlags) register(fs *pflag.FlagSet, forward, inverted bool) {
	if forward {
		fs.StringVar(&f.forward, "dict", "", "Forward dictionary path (default from config)")
	}
	if inverted {
		fs.StringVar(&f.inverted, "inverted", "", "Inverted dictionary path (default from config)")
	}
	fs.StringVar(&f.compression, "compression", "", "Compression for paths without a suffix: none, zstd, lz4")
}

func (f *dictFlags) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("dict") {
		cfg.Dictionary.ForwardPath = f.forward
	}
	if fs.Changed("inverted") {
		cfg.Dictionary.InvertedPath = f.inverted
	}
	if fs.Changed("compression") {
		cfg.Dictionary.Compression = f.compression
	}
	return cfg.Validate()
}
