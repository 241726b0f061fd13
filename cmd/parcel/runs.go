package main

import (
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored advisory runs",
	Long:  `Lists and shows the runs kept by the configured store (PARCEL_STORE).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Runs(cmd.Context())
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the report of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Show(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsShowCmd)
}
