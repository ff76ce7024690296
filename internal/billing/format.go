// Package billing contains the pure leaves of the review engine: display
// formatting, the eligibility filter and the summary-card assembler.
package billing

import (
	"fmt"
	"time"

	"github.com/franky15/billed-portal/internal/domain/entity"
)

// French month abbreviations as the portal has always displayed them:
// the capitalized first three runes of the French short month name.
// Juin and juillet genuinely collapse to the same label.
var frenchMonths = [...]string{
	"Jan", "Fév", "Mar", "Avr", "Mai", "Jui",
	"Jui", "Aoû", "Sep", "Oct", "Nov", "Déc",
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// FormatDate converts a stored date string into its localized display
// form, e.g. "2004-04-04" -> "4 Avr. 04". Malformed input returns an
// error; callers fall back to the raw value rather than abort.
func FormatDate(raw string) (string, error) {
	var parsed time.Time
	var err error
	for _, layout := range dateLayouts {
		parsed, err = time.Parse(layout, raw)
		if err == nil {
			return fmt.Sprintf("%d %s. %02d", parsed.Day(), frenchMonths[parsed.Month()-1], parsed.Year()%100), nil
		}
	}
	return "", fmt.Errorf("format date %q: %w", raw, err)
}

// FormatStatus maps a status to its display label. An unknown status is
// an implementation error and is never masked.
func FormatStatus(s entity.Status) (string, error) {
	switch s {
	case entity.StatusPending:
		return "En attente", nil
	case entity.StatusAccepted:
		return "Accepté", nil
	case entity.StatusRefused:
		return "Refused", nil
	}
	return "", fmt.Errorf("unknown bill status %q", s)
}
