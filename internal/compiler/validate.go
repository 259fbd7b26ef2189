package compiler

import (
	"fmt"
	"strings"
	"time"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

const reservedPrefix = "__"

// validate performs structural checks on a composed recipe and reports every
// problem it finds at once.
func validate(recipe *domain.Recipe) error {
	var problems []string

	if recipe.Name == "" {
		problems = append(problems, "recipe has no name")
	}

	seen := make(map[string]bool)
	for i, step := range recipe.Steps {
		where := fmt.Sprintf("step %d", i+1)
		if step.Name != "" {
			where = fmt.Sprintf("step %d (%s)", i+1, step.Name)
		}

		if step.Name == "" {
			problems = append(problems, where+": missing name")
		} else {
			if strings.HasPrefix(step.Name, reservedPrefix) {
				problems = append(problems, where+": name uses reserved prefix "+reservedPrefix)
			}
			if seen[step.Name] {
				problems = append(problems, where+": duplicate step name")
			}
			seen[step.Name] = true
		}

		if step.Type == "" {
			problems = append(problems, where+": missing type")
		}

		if step.Timeout != "" {
			if d, err := time.ParseDuration(step.Timeout); err != nil {
				problems = append(problems, fmt.Sprintf("%s: invalid timeout %q", where, step.Timeout))
			} else if d <= 0 {
				problems = append(problems, fmt.Sprintf("%s: timeout %q must be positive", where, step.Timeout))
			}
		}
	}

	if len(problems) > 0 {
		return &domain.RecipeValidationError{Recipe: recipe.Name, Problems: problems}
	}
	return nil
}
