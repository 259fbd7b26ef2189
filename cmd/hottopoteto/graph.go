package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muunkky/hottopoteto/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <recipe>",
	Short: "Export the recipe flow visualization",
	Long:  `Compiles a recipe and outputs a Mermaid diagram (graph TD) representing its step sequence and conditions.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine(cmd)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}

		recipe, err := engine.Compile(args[0])
		if err != nil {
			fmt.Printf("Error compiling recipe: %v\n", err)
			os.Exit(1)
		}

		// Generate and print Mermaid graph
		output := graph.GenerateMermaid(recipe)
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
