package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "regular date", raw: "2024-03-26", want: "26 Mar. 24"},
		{name: "single digit day", raw: "2004-04-04", want: "4 Apr. 04"},
		{name: "end of year", raw: "2023-12-31", want: "31 Dec. 23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_FailsOnUnparseableInput(t *testing.T) {
	for _, raw := range []string{"date", "", "26/03/2024", "2024-13-45"} {
		_, err := Date(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "pending", want: "Pending"},
		{raw: "accepted", want: "Accepted"},
		{raw: "refused", want: "Refused"},
		// Values outside the enumerated set fall back to first-letter
		// capitalization.
		{raw: "paid", want: "Paid"},
		{raw: "unpaid", want: "Unpaid"},
		{raw: "Paid", want: "Paid"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.raw), "raw=%q", tt.raw)
	}
}
