package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete orphaned temporary prediction uploads",
		Long: `Cleanup failures after classification cycles are logged rather than
surfaced, so temporary uploads can accumulate in the bucket. Sweep removes
temporary prediction images older than the configured age.`,
		RunE: runSweep,
	}
	cmd.Flags().Duration("older-than", 0, "delete temp uploads older than this (default: assets.temp_max_age)")
	return cmd
}

func runSweep(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	olderThan, _ := cmd.Flags().GetDuration("older-than")
	if olderThan <= 0 {
		olderThan = cfg.Assets.TempMaxAge
	}
	if olderThan <= 0 {
		olderThan = time.Hour
	}

	store, err := buildAssetStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	removed, err := store.SweepTemp(ctx, olderThan)
	if err != nil {
		return err
	}

	fmt.Printf("Removed %d orphaned upload(s).\n", removed)
	return nil
}
