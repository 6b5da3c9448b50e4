package syncer

import (
	"sort"
	"time"

	"tripwallet/models"
)

const dateLayout = "2006-01-02"

// SortByPrimaryDate orders items in place, ascending by each item's primary
// travel date (departure, pickup or start date, whichever is present).
// Time-of-day fields are not part of the comparison. Items whose date is
// absent or unparseable compare as the zero time and therefore always sort
// to the front — a deliberate normalization rather than leaving them
// wherever an order-dependent comparison happens to put them (see
// DESIGN.md). The sort is stable, so equal keys keep their input order.
func SortByPrimaryDate(items []models.ItineraryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return parseDate(items[i].PrimaryDate()).Before(parseDate(items[j].PrimaryDate()))
	})
}

func parseDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
