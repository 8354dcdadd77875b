package utils

import (
	"io"

	"github.com/fwguard/fwguard/internal/log"
)

// CloseOrWarn closes file and logs a warning when the close fails. Meant for
// defer sites where the error cannot change the outcome anymore.
func CloseOrWarn(file io.Closer) {
	if err := file.Close(); err != nil {
		log.Warnf("Failed to close file: %v", err)
	}
}
