package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muunkky/hottopoteto"
	"github.com/muunkky/hottopoteto/internal/presentation/tui"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <recipe>",
	Short: "Run a recipe and print its result document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var extra []hottopoteto.Option
		if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
			extra = append(extra, hottopoteto.WithDefaultTimeout(timeout))
		}

		engine, err := newEngine(cmd, extra...)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}

		inputs, err := parseInputs(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		// Ctrl-C aborts the run at the next step boundary.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		jsonMode, _ := cmd.Flags().GetBool("json")
		result, runErr := engine.Run(ctx, args[0], inputs)

		if result != nil && !jsonMode {
			fmt.Fprintf(os.Stderr, "run %s (%s)\n", result.Metadata.RunID, tui.RunBadge(result.Metadata.Status))
			for _, step := range result.Metadata.Steps {
				fmt.Fprintf(os.Stderr, "  %-24s %-12s %.3fs\n", step.Name, tui.StatusBadge(step.Status), step.Duration)
			}
		}

		if result != nil {
			doc, err := json.MarshalIndent(result.Document(), "", "  ")
			if err != nil {
				fmt.Printf("Error encoding result: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(doc))
		}

		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
			os.Exit(1)
		}
	},
}

// parseInputs turns repeated --input key=value flags into the __global seed.
func parseInputs(cmd *cobra.Command) (map[string]any, error) {
	pairs, _ := cmd.Flags().GetStringArray("input")
	if len(pairs) == 0 {
		return nil, nil
	}
	inputs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --input %q, expected key=value", pair)
		}
		inputs[key] = value
	}
	return inputs, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringArrayP("input", "i", nil, "Initial input as key=value (repeatable)")
	runCmd.Flags().Bool("json", false, "Print only the JSON result document")
	runCmd.Flags().Duration("timeout", 0, "Default per-step timeout (e.g. 30s), 0 disables")
}
