package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muunkky/hottopoteto/internal/presentation/tui"
)

var describeCmd = &cobra.Command{
	Use:   "describe <recipe>",
	Short: "Show a recipe's composed step sequence",
	Long:  `Compiles a recipe and renders its metadata and step list as formatted markdown.`,
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

		var md strings.Builder
		fmt.Fprintf(&md, "# %s\n\n", recipe.Name)
		if recipe.Description != "" {
			fmt.Fprintf(&md, "%s\n\n", recipe.Description)
		}
		if recipe.Version != "" {
			fmt.Fprintf(&md, "**Version:** %s  \n", recipe.Version)
		}
		fmt.Fprintf(&md, "**Domain:** %s\n\n", recipe.Domain)

		fmt.Fprintf(&md, "## Steps\n\n")
		for i, step := range recipe.Steps {
			fmt.Fprintf(&md, "%d. **%s** (`%s`)", i+1, step.Name, step.Type)
			var notes []string
			if step.Condition != "" {
				notes = append(notes, fmt.Sprintf("when `%s`", step.Condition))
			}
			if step.Timeout != "" {
				notes = append(notes, fmt.Sprintf("timeout %s", step.Timeout))
			}
			if len(notes) > 0 {
				fmt.Fprintf(&md, " — %s", strings.Join(notes, ", "))
			}
			fmt.Fprintln(&md)
		}

		render := tui.NewMarkdownRenderer()
		out, err := render(md.String())
		if err != nil {
			// Fall back to the raw markdown when the terminal can't render it.
			out = md.String()
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
