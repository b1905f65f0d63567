package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply history database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			history, err := buildHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = history.Close() }()

			fmt.Println("History database is up to date.")
			return nil
		},
	}
}
