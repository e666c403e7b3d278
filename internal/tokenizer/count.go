package tokenizer

import (
	"errors"
	"fmt"
)

const errorCountPartFormat = "count tokens for part %d: %w"

// PartCount is the token estimate for one exported part.
type PartCount struct {
	Part   int
	Tokens int
}

// CountSummary aggregates per-part token estimates.
type CountSummary struct {
	Counter string
	Parts   []PartCount
	Total   int
}

// CountParts counts every part with counter. Part numbers start at one.
func CountParts(counter Counter, parts []string) (CountSummary, error) {
	if counter == nil {
		return CountSummary{}, errors.New("nil tokenizer counter")
	}
	summary := CountSummary{Counter: counter.Name(), Parts: make([]PartCount, 0, len(parts))}
	for index, part := range parts {
		tokens, countError := counter.CountString(part)
		if countError != nil {
			return CountSummary{}, fmt.Errorf(errorCountPartFormat, index+1, countError)
		}
		summary.Parts = append(summary.Parts, PartCount{Part: index + 1, Tokens: tokens})
		summary.Total += tokens
	}
	return summary, nil
}
