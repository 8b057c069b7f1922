package utils

import (
	"fmt"
	"time"
)

// FormatElapsed renders a stage or job duration for log lines, switching to
// milliseconds below a tenth of a second.
func FormatElapsed(elapsed time.Duration) string {
	if elapsed < 100*time.Millisecond {
		return fmt.Sprintf("%.2fms", float64(elapsed.Nanoseconds())/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", elapsed.Seconds())
}

// ElapsedSince formats the time passed between start and now.
func ElapsedSince(start, now time.Time) string {
	return FormatElapsed(now.Sub(start))
}
