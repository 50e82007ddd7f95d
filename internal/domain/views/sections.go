package views

import (
	"sort"
	"time"

	"github.com/ChapterDesk/chapterdesk-go/internal/domain/entities/chapter"
)

// EventSection is one calendar day's worth of events, ordered by start time.
type EventSection struct {
	Date   time.Time       `json:"date"`
	Label  string          `json:"label"`
	Events []chapter.Event `json:"events"`
}

// sectionLabel formats a section's day header.
func sectionLabel(day time.Time) string {
	return day.Format("Monday, January 2")
}

// BuildSections buckets events by calendar day, ascending, with each day's
// events ordered by start time. When upcomingOnly is set, only events starting
// on or after now's calendar day are included.
func BuildSections(events map[string]chapter.Event, upcomingOnly bool, now time.Time) []EventSection {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	byDay := make(map[time.Time][]chapter.Event)
	for _, event := range events {
		day := time.Date(event.Start.Year(), event.Start.Month(), event.Start.Day(), 0, 0, 0, 0, event.Start.Location())
		if upcomingOnly && day.Before(today) {
			continue
		}
		byDay[day] = append(byDay[day], event)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	sections := make([]EventSection, 0, len(days))
	for _, day := range days {
		dayEvents := byDay[day]
		sort.Slice(dayEvents, func(i, j int) bool {
			if dayEvents[i].Start.Equal(dayEvents[j].Start) {
				return dayEvents[i].ID < dayEvents[j].ID
			}
			return dayEvents[i].Start.Before(dayEvents[j].Start)
		})
		sections = append(sections, EventSection{
			Date:   day,
			Label:  sectionLabel(day),
			Events: dayEvents,
		})
	}
	return sections
}
