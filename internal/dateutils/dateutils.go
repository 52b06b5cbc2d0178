// Package dateutils provides the date and time layouts used by payment registries.
package dateutils

import (
	"fmt"
	"time"
)

// Registry date layouts
const (
	// DateLayoutRegistry is the exact timestamp layout of a payload line
	// once its date and time fields are joined with a space (dd-MM-yyyy HH-mm-ss).
	DateLayoutRegistry = "02-01-2006 15-04-05"
	// DateLayoutDisplay is used in logs and reports.
	DateLayoutDisplay = "02.01.2006 15:04:05"
	// DateLayoutFileStamp is appended to generated file names.
	DateLayoutFileStamp = "20060102_150405"
)

// JoinDateTime joins the date and time fields of a payload line the way the
// registry layout expects them.
func JoinDateTime(date, clock string) string {
	return date + " " + clock
}

// ParseRegistryDateTime parses the date and time fields of a payload line.
// Only DateLayoutRegistry is accepted; there is no fallback format.
func ParseRegistryDateTime(date, clock string) (time.Time, error) {
	value := JoinDateTime(date, clock)
	t, err := time.Parse(DateLayoutRegistry, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse payment date '%s': expected dd-MM-yyyy HH-mm-ss", value)
	}
	return t, nil
}

// FileStamp formats t for use inside a file name.
func FileStamp(t time.Time) string {
	return t.Format(DateLayoutFileStamp)
}
