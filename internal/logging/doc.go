// Package logging provides opt-in file-based logging with rotation for dexsync.
// When the --debug flag is set, comprehensive logs are written to ~/.dexsync/logs/
// for debugging and troubleshooting.
//
// By default (without --debug), logging is minimal and goes to stderr only:
// human-readable text when stderr is a terminal, JSON when piped.
package logging
