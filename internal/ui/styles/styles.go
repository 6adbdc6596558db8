// Package styles provides shared lipgloss styles for relcut's terminal output.
//
// Colors come from the active [Theme]; call [Init] once after loading config.
// Whether escape sequences reach the terminal is decided by the colorprofile
// writers set up in the CLI, so styles can be applied unconditionally.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors of the active theme
var (
	Primary color.Color = DefaultTheme.Primary
	Accent  color.Color = DefaultTheme.Accent
	Success color.Color = DefaultTheme.Success
	Error   color.Color = DefaultTheme.Error
	Muted   color.Color = DefaultTheme.Muted
	Warning color.Color = DefaultTheme.Warning
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	// PrimaryStyle is used for step headers
	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	// AccentStyle highlights versions and branch names
	AccentStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
)

// Status symbols
const (
	SymbolOK   = "✓"
	SymbolFail = "✗"
	SymbolWarn = "!"
	SymbolSkip = "-"
)

// Header renders a project header line, e.g. "==> billing".
func Header(title string) string {
	return PrimaryStyle.Render("==> " + title)
}

// OK renders a success line with a checkmark.
func OK(msg string) string {
	return SuccessStyle.Render(SymbolOK) + " " + msg
}

// Fail renders a failure line with a cross.
func Fail(msg string) string {
	return ErrorStyle.Render(SymbolFail) + " " + msg
}

// Warn renders a warning line.
func Warn(msg string) string {
	return WarningStyle.Render(SymbolWarn) + " " + msg
}
