package internal

import (
	"fmt"
	"time"
)

const (
	// DisplayTimeFormat is the standard time format used across the application
	DisplayTimeFormat = "2006-01-02 15:04:05"
)

// FormatExpiry renders an expiration in local time with the time left,
// e.g. "2026-10-19 14:05:00 (0h59m remaining)".
func FormatExpiry(exp, now time.Time) string {
	if exp.IsZero() {
		return "no expiry"
	}
	remaining := exp.Sub(now).Round(time.Minute)
	if remaining <= 0 {
		return fmt.Sprintf("%s (expired)", exp.Local().Format(DisplayTimeFormat))
	}
	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60
	return fmt.Sprintf("%s (%dh%dm remaining)", exp.Local().Format(DisplayTimeFormat), hours, minutes)
}
