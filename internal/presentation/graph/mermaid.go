// Package graph renders recipes as Mermaid flowcharts for the CLI.
package graph

import (
	"fmt"
	"strings"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of a composed recipe's step
// sequence. Semantic shapes:
//   - user_input: [/Parallelogram/] (input)
//   - function:   [[Subroutine]]
//   - storage.*:  [(Database)]
//   - default:    [Rectangle]
//
// Conditional steps get an annotated edge from their predecessor.
func GenerateMermaid(recipe *domain.Recipe) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString(fmt.Sprintf("    start((\"%s\"))\n", recipe.Name))

	prev := "start"
	for _, step := range recipe.Steps {
		safeID := sanitizeMermaidID(step.Name)

		opener, closer := "[", "]"
		switch {
		case step.Type == "user_input":
			opener, closer = "[/", "/]"
		case step.Type == "function":
			opener, closer = "[[", "]]"
		case strings.HasPrefix(step.Type, "storage."):
			opener, closer = "[(", ")]"
		}

		label := step.Name + " <br/> " + step.Type
		if step.Timeout != "" {
			label += " ⏱️ " + step.Timeout
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		arrow := "-->"
		if step.Condition != "" {
			safeCondition := strings.ReplaceAll(step.Condition, "\"", "'")
			arrow = fmt.Sprintf("-- \"%s\" -->", safeCondition)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", prev, arrow, safeID))
		prev = safeID
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return replacer.Replace(id)
}
