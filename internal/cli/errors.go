package cli

import "fmt"

const usageErrorFormat = "invalid value %q for --%s: %s"

// UsageError reports a flag value rejected before any scanning starts.
type UsageError struct {
	Flag   string
	Value  string
	Reason string
}

func (usageError *UsageError) Error() string {
	return fmt.Sprintf(usageErrorFormat, usageError.Value, usageError.Flag, usageError.Reason)
}
