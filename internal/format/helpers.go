package format

import (
	"fmt"
	"time"
)

// FmtPercent formats a 0..1 rate as "93.8%".
func FmtPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", 100*v)
}

// FmtMol formats a mole amount with enough digits to tell minor phases
// apart without drowning the table.
func FmtMol(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

// FmtDuration formats a duration as "Xm Ys" or "Ys".
func FmtDuration(d time.Duration) string {
	s := int(d.Seconds())
	if s >= 60 {
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	}
	return fmt.Sprintf("%ds", s)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
