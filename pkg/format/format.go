// Package format holds the pure display-formatting utilities shared by the
// bill controllers.
package format

import (
	"fmt"
	"time"

	"github.com/billedhq/expense-client/internal/domain/entity"
)

const (
	isoLayout     = "2006-01-02"
	displayLayout = "2 Jan. 06"
)

// statusLabels maps the three workflow statuses to their display labels.
var statusLabels = map[string]string{
	entity.StatusPending:  "Pending",
	entity.StatusAccepted: "Accepted",
	entity.StatusRefused:  "Refused",
}

// Date converts a raw ISO date into its display form, e.g. "2024-03-26"
// becomes "26 Mar. 24". It fails loudly on unparseable input; the list
// controller relies on that to decide whether to fall back to the raw value.
func Date(raw string) (string, error) {
	t, err := time.Parse(isoLayout, raw)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t.Format(displayLayout), nil
}

// Status maps a workflow status to its display label. Values outside the
// enumerated set get their first letter capitalized, so the mapping stays
// total over whatever the store returns.
func Status(raw string) string {
	if label, ok := statusLabels[raw]; ok {
		return label
	}
	if raw == "" {
		return ""
	}
	r := []rune(raw)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}

// Display is the production implementation of the pluggable formatter the
// controllers depend on.
type Display struct{}

// Date implements the formatter contract.
func (Display) Date(raw string) (string, error) { return Date(raw) }

// Status implements the formatter contract.
func (Display) Status(raw string) string { return Status(raw) }
