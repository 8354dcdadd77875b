// Package log provides simple leveled logging for fwguard.
//
// This package implements a lightweight logging system with colored output
// and support for different log levels: DEBUG, INFO, WARN, and ERROR.
// It provides global logging functions that can be used throughout the application.
//
// # Log Levels
//
//   - DEBUG: Detailed diagnostic information (only shown in verbose mode)
//   - INFO: General informational messages
//   - WARN: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures and exceptions
//
// # Example Usage
//
// Basic logging:
//
//	log.Infof("Compiled %d statements", n)
//	log.Warnf("Confirmation skipped, running with reduced safety")
//	log.Errorf("Failed to apply ruleset: %v", err)
//
// Enabling verbose mode for debug output:
//
//	log.SetVerbose(true)
//	log.Debugf("Program:\n%s", program.Text())
//
// Commands that print payload data on stdout redirect logs to stderr:
//
//	log.SetForceStdErr(true)
//
// Fatal errors that exit the application:
//
//	if err != nil {
//	    log.Fatalf("Critical error: %v", err) // Exits with code 1
//	}
//
// Console output carries no timestamps; the audit trail with timestamped
// lines is the journal package, which echoes through this logger.
package log
