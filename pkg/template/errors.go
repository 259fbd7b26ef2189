package template

import "fmt"

// ResolutionError reports a placeholder whose dotted path (or function call)
// could not be resolved against the execution context. Path is the full
// placeholder body; Missing names the first segment that broke the lookup.
type ResolutionError struct {
	Path    string
	Missing string
	Reason  string
}

func (e *ResolutionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("template: cannot resolve %q: %s", e.Path, e.Reason)
	}
	if e.Missing != "" && e.Missing != e.Path {
		return fmt.Sprintf("template: cannot resolve %q: no value for %q", e.Path, e.Missing)
	}
	return fmt.Sprintf("template: cannot resolve %q", e.Path)
}
