package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muunkky/hottopoteto"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hottopoteto",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hottopoteto version %s\n", strings.TrimSpace(hottopoteto.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
