package main

import (
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <property-file>",
	Short: "Analyze a property for an investment strategy",
	Long: `Reads a property description (YAML or JSON, "-" for stdin), runs the
advisory flow and prints the report. Runs that lack data pause and can be
completed with 'parcel analyze resubmit'.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"banner": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, _ := cmd.Flags().GetString("strategy")
		noGenerate, _ := cmd.Flags().GetBool("no-generate")
		_, err := app.Analyze(cmd.Context(), args[0], strategy, !noGenerate)
		return err
	},
}

var resubmitCmd = &cobra.Command{
	Use:   "resubmit <run-id> [field=value]...",
	Short: "Complete a paused run with the missing fields",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noGenerate, _ := cmd.Flags().GetBool("no-generate")
		_, err := app.Resubmit(cmd.Context(), args[0], args[1:], !noGenerate)
		return err
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(resubmitCmd)

	analyzeCmd.Flags().StringP("strategy", "s", "Passive Income", "Investment strategy: Passive Income, Aggressive Growth or Fix & Flip")
	analyzeCmd.PersistentFlags().Bool("no-generate", false, "Stop after the flow and skip report generation")
}
