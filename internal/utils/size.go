package utils

import "fmt"

var fileSizeUnits = []string{"B", "KB", "MB"}

const fileSizeOverflowUnit = "GB"

// FormatFileSize converts a byte length into the largest unit keeping the
// value below 1024, formatted with one decimal place. Values that remain
// at or above 1024 after three divisions are reported in GB.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	value := float64(bytes)
	for _, unit := range fileSizeUnits {
		if value < 1024 {
			return fmt.Sprintf("%.1f%s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f%s", value, fileSizeOverflowUnit)
}
