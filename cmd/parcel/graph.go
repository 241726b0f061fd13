package main

import (
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the advisory flow as a Mermaid diagram",
	Long:  `Outputs the flow states as a Mermaid diagram (graph TD). With --run the path taken by that run is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, _ := cmd.Flags().GetString("run")
		return app.Graph(cmd.Context(), runID)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("run", "", "Highlight the path of a stored run")
}
