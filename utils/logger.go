package utils

import "log"

// Logf is the package-level diagnostic logger used by the carving library.
// It defaults to log.Printf but may be replaced by SetLogger.
var Logf func(format string, v ...any) = log.Printf

// SetLogger replaces the diagnostic logger. Passing nil mutes it.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}
