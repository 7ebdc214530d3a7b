// Package output renders user-facing messages.
//
// Diagnostics go to the logger; this package is for what the user reads:
// prefixed action lines, dry-run intents, warnings and the status table.
// Color is used only when writing to a terminal and not disabled by
// settings or NO_COLOR.
package output
