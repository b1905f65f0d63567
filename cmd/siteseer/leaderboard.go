package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siteseer/siteseer/internal/leaderboard"
)

func leaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "leaderboard [users|sites]",
		Short:     "Show the collection leaderboard",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"users", "sites"},
		RunE:      runLeaderboard,
	}
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	board := leaderboard.BoardUsers
	heading := "User"
	unit := "Points"
	if len(args) == 1 && args[0] == "sites" {
		board = leaderboard.BoardSites
		heading = "Site"
		unit = "Photos"
	}

	boards, scores, err := buildBoards(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = scores.Close() }()

	entries, err := boards.Fetch(ctx, board)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("The leaderboard is empty.")
		return nil
	}

	fmt.Printf("%-5s %-30s %s\n", "Place", heading, unit)
	for _, entry := range entries {
		fmt.Printf("#%-4d %-30s %d\n", entry.Place, entry.Key, entry.Value)
	}
	return nil
}
