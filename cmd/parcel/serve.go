package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/parcel/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serves the advisory API over HTTP until interrupted. Metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if !cmd.Flags().Changed("addr") {
			addr = cfg.HTTPAddr
		}
		validate, _ := cmd.Flags().GetBool("validate")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		if err := app.Serve(ctx, addr, validate); err != nil {
			return err
		}
		if sig := ctx.Signal(); sig != nil {
			app.Logger.Info("Shutdown requested", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on (defaults to PARCEL_HTTP_ADDR)")
	serveCmd.Flags().Bool("validate", false, "Validate requests against the OpenAPI document")
}
