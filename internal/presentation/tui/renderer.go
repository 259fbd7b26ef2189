// Package tui holds terminal presentation helpers for the CLI.
package tui

import (
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// NewMarkdownRenderer returns a function that renders markdown for the
// terminal, auto-detecting light/dark backgrounds.
func NewMarkdownRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// StatusBadge renders a step status with a color appropriate for the
// terminal profile.
func StatusBadge(status domain.StepStatus) string {
	p := termenv.ColorProfile()
	s := termenv.String(string(status))
	switch status {
	case domain.StepSucceeded:
		s = s.Foreground(p.Color("2")) // green
	case domain.StepFailed:
		s = s.Foreground(p.Color("1")).Bold() // red
	case domain.StepSkipped:
		s = s.Foreground(p.Color("3")) // yellow
	}
	return s.String()
}

// RunBadge renders a run status the same way.
func RunBadge(status domain.RunStatus) string {
	p := termenv.ColorProfile()
	s := termenv.String(string(status))
	switch status {
	case domain.RunCompleted:
		s = s.Foreground(p.Color("2"))
	case domain.RunAborted:
		s = s.Foreground(p.Color("1")).Bold()
	}
	return s.String()
}
