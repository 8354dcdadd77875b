// Package commands implements the CLI subcommands.
//
// Every subcommand is a Runner: main parses the global flags, picks the
// Runner by name, calls Init with the remaining arguments and then Run.
// Commands that mutate the firewall (apply, rollback) require root, take an
// exclusive lock on the snapshot directory and record every step in the
// operation journal.
//
// Outcome-specific exit codes (see the Exit* constants) are reserved for the
// mutating commands; everything else exits 0 on success and 1 on failure.
package commands
