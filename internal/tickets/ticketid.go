package tickets

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/gosimple/slug"
)

// maxEventSlugLen keeps the event part of the display ID short enough to
// read on the printed ticket.
const maxEventSlugLen = 20

// slug.Make spells out "&" and "@"; the portal's display IDs drop
// symbols outright, so blank them before slugging.
var slugSymbols = strings.NewReplacer("&", " ", "@", " ")

func displaySlug(s string) string {
	return slug.Make(slugSymbols.Replace(s))
}

// PublicTicketID derives the human-readable display key:
// {eventSlug}-{nameSlug}-{AGNO}-{random}. The random 4-digit suffix only
// disambiguates the display string; the uniqueness authority stays the
// (event, AG No) pair.
func PublicTicketID(eventTitle, fullName, agNo string) string {
	eventSlug := displaySlug(eventTitle)
	if eventSlug == "" {
		eventSlug = "event"
	}
	if len(eventSlug) > maxEventSlugLen {
		eventSlug = eventSlug[:maxEventSlugLen]
	}

	nameSlug := displaySlug(fullName)
	if nameSlug == "" {
		nameSlug = "student"
	}

	random := 1000 + rand.Intn(9000)
	return fmt.Sprintf("%s-%s-%s-%d", eventSlug, nameSlug, agNo, random)
}
