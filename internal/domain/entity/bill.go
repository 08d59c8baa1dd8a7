package entity

import "sort"

// Bill workflow statuses. New bills are always created as pending;
// status transitions happen on the store side.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRefused  = "refused"
)

// Bill represents one employee expense record.
//
// Amount and Pct come from free-text form fields and are coerced with
// lenient integer parsing: non-numeric input stays nil and serialises as
// JSON null. Date holds the raw ISO form as entered; the display form is
// derived separately and never persisted. FileURL and FileName are set
// together from a single successful receipt upload, or stay nil.
type Bill struct {
	ID         string  `json:"id,omitempty"`
	Email      string  `json:"email"`
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Amount     *int64  `json:"amount"`
	Date       string  `json:"date"`
	VAT        string  `json:"vat"`
	Pct        *int64  `json:"pct"`
	Commentary string  `json:"commentary"`
	FileURL    *string `json:"fileUrl"`
	FileName   *string `json:"fileName"`
	Status     string  `json:"status"`
}

// SortByDateDesc orders bills most recent first, in place. It operates on
// the raw ISO dates, where lexical and chronological order coincide, so it
// must run before any display formatting.
func SortByDateDesc(bills []Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].Date > bills[j].Date
	})
}
