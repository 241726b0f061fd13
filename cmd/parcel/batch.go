package main

import (
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Analyze every listing in a directory",
	Long: `Loads Markdown, YAML or JSON listings from dir (PARCEL_LISTINGS_DIR by
default) and analyzes them concurrently.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"banner": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.ListingsDir
		if len(args) > 0 {
			dir = args[0]
		}
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		noGenerate, _ := cmd.Flags().GetBool("no-generate")
		_, err := app.Batch(cmd.Context(), dir, concurrency, !noGenerate)
		return err
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntP("concurrency", "c", 4, "Listings analyzed at the same time")
	batchCmd.Flags().Bool("no-generate", false, "Stop after the flow and skip report generation")
}
