// Package logging builds slog loggers with the repository's console and
// JSON handlers and provides typed attribute helpers plus context-derived
// structured fields.
package logging
