package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBookingCode(t *testing.T) {
	codePattern := regexp.MustCompile(`^BK\d+$`)

	code := NewBookingCode()
	assert.Regexp(t, codePattern, code)
}

func TestNewBookingCode_UniqueWithinSameMillisecond(t *testing.T) {
	seen := make(map[string]bool)

	// generating a burst back to back lands many codes in the same millisecond
	for i := 0; i < 1000; i++ {
		code := NewBookingCode()
		if seen[code] {
			t.Fatalf("duplicate booking code generated: %s", code)
		}
		seen[code] = true
	}
}

func TestNewTicketNumber(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^TKT\d+$`), NewTicketNumber())
}
