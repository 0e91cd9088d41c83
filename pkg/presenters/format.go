package presenters

import (
	"fmt"
	"strings"

	"github.com/cbodonnell/coinflip/pkg/flip"
)

// EmptyHistoryText is the timeline placeholder shown before the first flip.
const EmptyHistoryText = "No flips yet."

// FormatRecord formats a timeline entry as "#3 HEADS 12:34:56".
func FormatRecord(r flip.Record) string {
	return fmt.Sprintf("#%d %s %s", r.Sequence, strings.ToUpper(r.Outcome.String()), r.Timestamp)
}

// FormatTally formats the running totals as they appear on the stats line.
func FormatTally(heads, tails, total uint) string {
	return fmt.Sprintf("Heads: %d  Tails: %d  Total: %d", heads, tails, total)
}
