// Package prompt asks the operator for a release version.
//
// On a terminal the question is a bubbletea text input that validates the
// answer as it is submitted. When stdin is not a terminal (piped answers,
// CI) a plain line is read instead, one line per project.
//
// In both modes an empty answer accepts the suggested version.
package prompt
