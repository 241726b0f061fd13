package main

import (
	"github.com/spf13/cobra"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate <property-file>",
	Short: "Compute the financial metrics of a property",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := app.Calculate(args[0])
		return err
	},
}

func init() {
	rootCmd.AddCommand(calculateCmd)
}
