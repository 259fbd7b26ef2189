package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "List the registered link types",
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine(cmd)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}

		for _, name := range engine.LinkTypes() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(linksCmd)
}
