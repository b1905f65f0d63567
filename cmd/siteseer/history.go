package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "history [classifications|collections]",
		Short:     "Show recent classification or collection history",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"classifications", "collections"},
		RunE:      runHistory,
	}
	cmd.Flags().Int("limit", 20, "maximum entries to show")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	history, err := buildHistory(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = history.Close() }()

	if len(args) == 1 && args[0] == "collections" {
		records, listErr := history.ListCollections(ctx, limit)
		if listErr != nil {
			return listErr
		}
		if len(records) == 0 {
			fmt.Println("No collections recorded.")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s  %s by %s -> %s (+%d)\n",
				r.CollectedAt.Format("2006-01-02 15:04"), r.Site, r.UserID, r.ObjectKey, r.PointsAwarded)
		}
		return nil
	}

	records, err := history.ListClassifications(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No classifications recorded.")
		return nil
	}
	for _, r := range records {
		if r.TopClass != "" {
			fmt.Printf("%s  %s -> %s (%.2f%%) [%s]\n",
				r.ClassifiedAt.Format("2006-01-02 15:04"), r.ImagePath, r.TopClass, r.DisplayConfidence, r.Outcome)
		} else {
			fmt.Printf("%s  %s [%s]\n",
				r.ClassifiedAt.Format("2006-01-02 15:04"), r.ImagePath, r.Outcome)
		}
	}
	return nil
}
