package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "stocksim",
	Short: "Simulated stock trading backend",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
