// Package blocks expands a weekday-indexed template of recurring desk blocks
// into concrete date-stamped blocks over a requested window.
package blocks

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
)

// TemplateEntry is one recurring block within a templated weekday.
// Hours are fractional clock hours (.5 denotes the half hour).
type TemplateEntry struct {
	StartHour float64
	EndHour   float64
}

// WeekdayTemplate maps a weekday to its recurring blocks. Weekdays with no
// entry (weekends, typically) are skipped during expansion.
type WeekdayTemplate map[time.Weekday][]TemplateEntry

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Expand generates one WorkBlock per (date, template entry) pair for every
// date in [start, end) whose weekday appears in the template. Output is
// chronological, entries within a day in template order, and deterministic:
// identical inputs always yield identical output. Dates are interpreted in
// start's location, which must match the business-hours location.
func Expand(start, end time.Time, tmpl WeekdayTemplate) ([]model.WorkBlock, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("start %s is not before end %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	weekdays := templatedWeekdays(tmpl)
	if len(weekdays) == 0 {
		return []model.WorkBlock{}, nil
	}

	loc := start.Location()
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: weekdays,
		Dtstart:   first,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule: %w", err)
	}

	out := []model.WorkBlock{}
	for _, occurrence := range rule.Between(first, end, true) {
		if !occurrence.Before(end) {
			continue
		}
		date := time.Date(occurrence.Year(), occurrence.Month(), occurrence.Day(), 0, 0, 0, 0, loc)
		for _, entry := range tmpl[date.Weekday()] {
			out = append(out, model.WorkBlock{
				Date:      date,
				StartHour: entry.StartHour,
				EndHour:   entry.EndHour,
				Weekday:   date.Weekday(),
			})
		}
	}

	return out, nil
}

// templatedWeekdays returns the template's weekdays as rrule weekdays in a
// stable order
func templatedWeekdays(tmpl WeekdayTemplate) []rrule.Weekday {
	days := make([]time.Weekday, 0, len(tmpl))
	for wd, entries := range tmpl {
		if len(entries) > 0 {
			days = append(days, wd)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	out := make([]rrule.Weekday, 0, len(days))
	for _, wd := range days {
		out = append(out, rruleWeekdays[wd])
	}
	return out
}
