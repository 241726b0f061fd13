package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [text]",
	Short: "Check text against the investment advice policy",
	Long: `Runs the guardrail checks of a task (or the explicit --check list) over the
given text, or stdin when no text is given. Exits non-zero on a violation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		task, _ := cmd.Flags().GetString("task")
		checks, _ := cmd.Flags().GetStringSlice("check")

		text := strings.Join(args, " ")
		if text == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			text = string(data)
		}
		_, err := app.Validate(text, task, checks)
		return err
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("task", "final_recommendation", "Task whose checks apply")
	validateCmd.Flags().StringSlice("check", nil, "Run only these checks (repeatable)")
}
