package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/parcel/internal/cli"
	"github.com/aretw0/parcel/internal/config"
	"github.com/aretw0/parcel/internal/presentation/tui"
)

var (
	cfg config.Config
	app *cli.App
)

var rootCmd = &cobra.Command{
	Use:   "parcel",
	Short: "Parcel is a real-estate investment advisory engine",
	Long: `Parcel analyzes rental properties: it computes the financial metrics,
runs the advisory flow for an investment strategy and drafts a policy-checked
recommendation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		envFile, _ := cmd.Flags().GetString("env")
		debug, _ := cmd.Flags().GetBool("debug")
		jsonMode, _ := cmd.Flags().GetBool("json")

		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}
		logger := cli.NewLogger(cfg.LogLevel, debug)

		w, err := cli.NewWiring(cfg, logger)
		if err != nil {
			return err
		}
		app = &cli.App{Wiring: w, Out: os.Stdout, In: os.Stdin, JSON: jsonMode}

		if !jsonMode && cmd.Annotations["banner"] == "true" && tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if app != nil {
		app.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("env", ".env", "Path of the .env file to load")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Write JSON instead of markdown")
}
