// Package ui renders terminal output for the CLI and the interactive shell.
//
// Styles come from a small [lipgloss] palette (title, ok, err, warn, help). The
// helpers return strings and never write, so callers decide where output goes.
package ui
