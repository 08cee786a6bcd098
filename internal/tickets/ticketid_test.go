package tickets_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tcs-portal/internal/tickets"
)

func TestPublicTicketIDParts(t *testing.T) {
	id := tickets.PublicTicketID("Programming in Big Data – Seminar", "Ali Khan", "2022-AG-7993")

	assert.True(t, strings.HasPrefix(id, "programming-in-big-d-ali-khan-2022-AG-7993-"), "got %s", id)

	suffix := id[strings.LastIndex(id, "-")+1:]
	assert.Len(t, suffix, 4)
	assert.GreaterOrEqual(t, suffix[0], byte('1'))
}

func TestPublicTicketIDDropsSymbols(t *testing.T) {
	// "&" collapses into the hyphen run instead of spelling out "and",
	// matching the IDs already printed on issued tickets.
	id := tickets.PublicTicketID("Tech & Entrepreneurship Summit 4.0", "Ali Khan", "2022-AG-7993")
	assert.True(t, strings.HasPrefix(id, "tech-entrepreneurshi-ali-khan-2022-AG-7993-"), "got %s", id)
}

func TestPublicTicketIDFallbacks(t *testing.T) {
	id := tickets.PublicTicketID("", "", "2022-AG-7993")
	assert.True(t, strings.HasPrefix(id, "event-student-2022-AG-7993-"), "got %s", id)
}

func TestPublicTicketIDTruncatesEventSlug(t *testing.T) {
	id := tickets.PublicTicketID("An Extremely Long Event Title That Keeps Going", "Ali", "2022-AG-7993")

	eventPart := id[:strings.Index(id, "-ali-")]
	assert.LessOrEqual(t, len(eventPart), 20)
}

func TestPublicTicketIDVariesBetweenCalls(t *testing.T) {
	// The suffix only disambiguates the display string, but two calls
	// for the same student should still almost never collide.
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		seen[tickets.PublicTicketID("Summit", "Ali Khan", "2022-AG-7993")] = true
	}
	assert.Greater(t, len(seen), 1)
}
