package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@email.com", "first.last+tag@sub.domain.org"}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), "email=%q", email)
	}

	invalid := []string{"", "user", "user@", "@email.com", "user@email", "a b@email.com"}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), "email=%q", email)
	}
}
