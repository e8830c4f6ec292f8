package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"study-app/internal/economy"
)

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the development exercise and solution catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := commonRun()
			if err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := economy.NewService(store, logger, nil).Seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d exercises, %d solutions\n",
				report.ExercisesInserted, report.SolutionsInserted)
			return nil
		},
	}
}
