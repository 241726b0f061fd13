package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/parcel"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of parcel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("parcel version %s\n", parcel.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
