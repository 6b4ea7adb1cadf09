package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sortviz/pkg/arraygen"
	"github.com/Sumatoshi-tech/sortviz/pkg/config"
	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
)

// Flag names shared by the run commands.
const (
	flagSize      = "size"
	flagAlgorithm = "algorithm"
	flagSpeed     = "speed"
	flagSeed      = "seed"
	flagValues    = "values"
	flagNoColor   = "no-color"
	flagFormat    = "format"
	flagOutput    = "output"
	flagTheme     = "theme"
	flagMaxFrames = "max-frames"
)

// ErrEmptyValues is returned when --values parses to an empty array.
var ErrEmptyValues = errors.New("--values must contain at least one integer")

// sortFlags holds the array and algorithm selection flags.
type sortFlags struct {
	size      int
	algorithm string
	seed      uint64
	values    string
}

func (f *sortFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.size, flagSize, "n", config.DefaultArraySize, "number of random values to sort")
	cmd.Flags().StringVarP(&f.algorithm, flagAlgorithm, "a", config.DefaultAlgorithm, "sorting algorithm (bubble, selection, insertion, merge, quick)")
	cmd.Flags().Uint64Var(&f.seed, flagSeed, config.DefaultSeed, "random seed (0 = time-seeded)")
	cmd.Flags().StringVar(&f.values, flagValues, "", "explicit comma or space separated values instead of a random array")
}

// apply copies explicitly set flags over the loaded configuration.
func (f *sortFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed(flagSize) {
		cfg.Sort.ArraySize = f.size
	}

	if flags.Changed(flagAlgorithm) {
		cfg.Sort.Algorithm = f.algorithm
	}

	if flags.Changed(flagSeed) {
		cfg.Sort.Seed = f.seed
	}
}

// input resolves the array to sort: explicit values when given, otherwise
// a fresh random array from the configured generator.
func (f *sortFlags) input(cmd *cobra.Command, cfg *config.Config) ([]int, error) {
	if !cmd.Flags().Changed(flagValues) {
		values, err := cfg.Generator().Generate(cfg.Sort.ArraySize)
		if err != nil {
			return nil, fmt.Errorf("generate array: %w", err)
		}

		return values, nil
	}

	values, err := arraygen.ParseValues(f.values)
	if err != nil {
		return nil, fmt.Errorf("parse --values: %w", err)
	}

	if len(values) == 0 {
		return nil, ErrEmptyValues
	}

	return values, nil
}

// prepare loads configuration, applies the sort flags, and resolves the
// sorter and input array. All validation errors surface here, before any
// event is produced.
func prepare(cmd *cobra.Command, opts *globalOptions, f *sortFlags, extra func(*config.Config)) (*config.Config, sorting.Sorter, []int, error) {
	cfg, err := opts.load()
	if err != nil {
		return nil, nil, nil, err
	}

	f.apply(cmd, cfg)

	if extra != nil {
		extra(cfg)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	sorter, err := sorting.New(cfg.Algorithm())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("select algorithm: %w", err)
	}

	values, err := f.input(cmd, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, sorter, values, nil
}
