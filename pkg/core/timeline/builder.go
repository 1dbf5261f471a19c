// Package timeline builds conflict-annotated busy-interval timelines from raw
// staffing and calendar records.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
)

// BusinessHours is the daily admission window in fractional clock hours.
// An interval is kept only when its start and end clock times both fall
// inside the window; out-of-window intervals are dropped, never truncated.
type BusinessHours struct {
	Open  float64
	Close float64
}

// DefaultBusinessHours is the 9am–9pm desk window
var DefaultBusinessHours = BusinessHours{Open: 9, Close: 21}

// Sources holds one person's raw records from every upstream source kind.
// All kinds must be present before Build runs: conflict flagging needs the
// complete set.
type Sources struct {
	Shifts       []model.RawShift
	TimeOff      []model.RawTimeOff
	Events       []model.RawEvent
	Appointments []model.RawAppointment
}

// timestampLayouts are tried in order when parsing upstream timestamps.
// Layouts without an offset are interpreted in the configured location.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp parses an upstream timestamp string in the given location
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Build converts one person's raw records into a sorted, conflict-flagged
// timeline. Records with malformed timestamps (or a non-positive duration)
// are skipped individually; the count of skipped records is returned so the
// caller can log and count them. Build is pure: it never mutates its inputs.
func Build(personID int, src Sources, hours BusinessHours, loc *time.Location) (*model.PersonTimeline, int) {
	intervals := make([]model.BusyInterval, 0,
		len(src.Shifts)+len(src.TimeOff)+len(src.Events)+len(src.Appointments))
	skipped := 0

	admit := func(kind model.Kind, from, to, label, title string) {
		start, err := ParseTimestamp(from, loc)
		if err != nil {
			skipped++
			return
		}
		end, err := ParseTimestamp(to, loc)
		if err != nil {
			skipped++
			return
		}
		if !start.Before(end) {
			skipped++
			return
		}
		if !WithinBusinessHours(start, end, hours) {
			return
		}
		intervals = append(intervals, model.BusyInterval{
			Kind:  kind,
			Start: start,
			End:   end,
			Label: label,
			Title: title,
		})
	}

	for _, s := range src.Shifts {
		admit(model.KindShift, s.From, s.To, s.ScheduleName, s.ScheduleName)
	}
	for _, t := range src.TimeOff {
		admit(model.KindTimeOff, t.From, t.To, t.Category, t.Category)
	}
	for _, e := range src.Events {
		admit(model.KindEvent, e.Start, e.End, e.Title, e.Title)
	}
	for _, a := range src.Appointments {
		admit(model.KindAppointment, a.From, a.To, "Appointment", "Appointment")
	}

	// Stable sort keeps insertion order for intervals sharing a start time
	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})

	return &model.PersonTimeline{
		PersonID:  personID,
		Intervals: intervals,
		Conflicts: FlagConflicts(intervals),
	}, skipped
}

// WithinBusinessHours reports whether both endpoints' clock times fall inside
// the admission window. The check is on the clock-time component only; an
// interval starting before opening or ending after closing is rejected whole.
func WithinBusinessHours(start, end time.Time, hours BusinessHours) bool {
	return ClockHour(start) >= hours.Open && ClockHour(end) <= hours.Close
}

// ClockHour returns the fractional hour-of-day of an instant (9:30 → 9.5)
func ClockHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// FlagConflicts marks every interval that overlaps at least one other interval
// in the slice. Pairwise scan: commitments per person per window number in the
// tens, so the quadratic cost is not worth a sweep.
func FlagConflicts(intervals []model.BusyInterval) []bool {
	flags := make([]bool, len(intervals))
	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals); j++ {
			if model.Overlapping(intervals[i], intervals[j]) {
				flags[i] = true
				flags[j] = true
			}
		}
	}
	return flags
}
