package views

import "github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"

// PointsFor returns a user's total for one category. Ledgers are sparse by
// construction; a missing category reads as zero.
func PointsFor(ledger chapter.PointLedger, category string) int {
	return ledger[category]
}

// PointsTotal sums every category in a ledger.
func PointsTotal(ledger chapter.PointLedger) int {
	total := 0
	for _, v := range ledger {
		total += v
	}
	return total
}

// EventPoints returns the award an event carries for one category, zero when
// the category is absent.
func EventPoints(event chapter.Event, category string) int {
	return event.Points[category]
}
