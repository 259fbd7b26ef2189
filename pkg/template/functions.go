package template

import (
	"fmt"
	"math/rand"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Func is a built-in callable usable inside a placeholder, e.g.
// {{ random_int(1, 10) }}. Arguments arrive already parsed as Go values.
type Func func(args []any) (any, error)

var callPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\((.*)\)$`)

func builtins() map[string]Func {
	return map[string]Func{
		"now": func(args []any) (any, error) {
			if len(args) != 0 {
				return nil, fmt.Errorf("now takes no arguments, got %d", len(args))
			}
			return time.Now().UTC().Format(time.RFC3339), nil
		},
		"random": func(args []any) (any, error) {
			if len(args) != 0 {
				return nil, fmt.Errorf("random takes no arguments, got %d", len(args))
			}
			return rand.Float64(), nil
		},
		"random_int": func(args []any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("random_int takes 2 arguments, got %d", len(args))
			}
			min, err := cast.ToIntE(args[0])
			if err != nil {
				return nil, fmt.Errorf("random_int: min: %w", err)
			}
			max, err := cast.ToIntE(args[1])
			if err != nil {
				return nil, fmt.Errorf("random_int: max: %w", err)
			}
			if max < min {
				return nil, fmt.Errorf("random_int: max %d below min %d", max, min)
			}
			return min + rand.Intn(max-min+1), nil
		},
		"uuid": func(args []any) (any, error) {
			if len(args) != 0 {
				return nil, fmt.Errorf("uuid takes no arguments, got %d", len(args))
			}
			return uuid.NewString(), nil
		},
		"env": func(args []any) (any, error) {
			if len(args) < 1 || len(args) > 2 {
				return nil, fmt.Errorf("env takes 1 or 2 arguments, got %d", len(args))
			}
			name, err := cast.ToStringE(args[0])
			if err != nil {
				return nil, fmt.Errorf("env: name: %w", err)
			}
			if v, ok := os.LookupEnv(name); ok {
				return v, nil
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return "", nil
		},
	}
}

// parseCall splits a placeholder body of the form name(arg, arg) into its
// function name and argument list. ok is false when the body is not a call.
func parseCall(body string) (name string, args []any, ok bool, err error) {
	m := callPattern.FindStringSubmatch(body)
	if m == nil {
		return "", nil, false, nil
	}
	name = m[1]
	raw := strings.TrimSpace(m[2])
	if raw == "" {
		return name, nil, true, nil
	}
	for _, part := range splitArgs(raw) {
		v, perr := parseArg(strings.TrimSpace(part))
		if perr != nil {
			return name, nil, true, perr
		}
		args = append(args, v)
	}
	return name, args, true, nil
}

// splitArgs splits on commas that are outside quoted strings.
func splitArgs(raw string) []string {
	var (
		parts []string
		buf   strings.Builder
		quote rune
	)
	for _, r := range raw {
		switch {
		case quote != 0:
			buf.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
			buf.WriteRune(r)
		case r == ',':
			parts = append(parts, buf.String())
			buf.Reset()
		default:
			buf.WriteRune(r)
		}
	}
	parts = append(parts, buf.String())
	return parts
}

func parseArg(s string) (any, error) {
	if s == "" {
		return "", nil
	}
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1], nil
		}
	}
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "none":
		return nil, nil
	}
	if i, err := cast.ToInt64E(s); err == nil && !strings.Contains(s, ".") {
		return i, nil
	}
	if f, err := cast.ToFloat64E(s); err == nil {
		return f, nil
	}
	// Bare words read as string literals so env(HOME) works without quotes.
	return s, nil
}
