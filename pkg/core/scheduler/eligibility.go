// Package scheduler evaluates staff availability for desk blocks and builds
// group-prioritized assignment suggestions.
package scheduler

import (
	"fmt"
	"time"

	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
)

// Caps bound how many commitments a person may hold before they stop being
// suggested for additional blocks.
type Caps struct {
	Daily  int // any-kind intervals starting on the block's date
	Weekly int // shift-kind intervals starting in the block's week
}

// DefaultCaps are deliberately loose; they exist to catch pathological load,
// not to enforce policy.
var DefaultCaps = Caps{Daily: 10, Weekly: 20}

const clockFormat = "3:04 PM"

// Evaluate decides whether a person can take a block, given their timeline.
// A person is ineligible when any timeline interval overlaps the block, or
// when either load cap is already met. Counts and the adjacency note are
// populated regardless of the outcome.
func Evaluate(block model.WorkBlock, tl *model.PersonTimeline, caps Caps) model.Eligibility {
	result := model.Eligibility{Eligible: true}
	if tl == nil {
		return result
	}

	blockStart := block.Start()
	blockEnd := block.End()

	var priorShift, futureShift *model.BusyInterval
	for i := range tl.Intervals {
		iv := &tl.Intervals[i]

		if iv.Overlaps(blockStart, blockEnd) {
			result.Eligible = false
		}
		if sameDate(iv.Start, block.Date) {
			result.DailyCount++
		}
		if iv.Kind == model.KindShift && weekStart(iv.Start).Equal(weekStart(block.Date)) {
			result.WeeklyCount++
		}

		// Neighboring same-day shifts for the adjacency note
		if iv.Kind == model.KindShift && sameDate(iv.Start, block.Date) {
			if iv.Start.Before(blockStart) {
				if priorShift == nil || iv.Start.After(priorShift.Start) {
					priorShift = iv
				}
			} else if iv.Start.After(blockStart) {
				if futureShift == nil || iv.Start.Before(futureShift.Start) {
					futureShift = iv
				}
			}
		}
	}

	// Prior wins over future when both exist
	if priorShift != nil {
		result.AdjacencyNote = fmt.Sprintf("Prior: %s – %s",
			priorShift.Start.Format(clockFormat), priorShift.End.Format(clockFormat))
	} else if futureShift != nil {
		result.AdjacencyNote = fmt.Sprintf("Later: %s – %s",
			futureShift.Start.Format(clockFormat), futureShift.End.Format(clockFormat))
	}

	if result.DailyCount >= caps.Daily || result.WeeklyCount >= caps.Weekly {
		result.Eligible = false
	}

	return result
}

// WeeklyShiftCount counts a person's shift-kind intervals starting in the
// week containing date. This reflects total committed shifts for that week,
// independent of any particular block.
func WeeklyShiftCount(tl *model.PersonTimeline, date time.Time) int {
	if tl == nil {
		return 0
	}
	week := weekStart(date)
	count := 0
	for _, iv := range tl.Intervals {
		if iv.Kind == model.KindShift && weekStart(iv.Start).Equal(week) {
			count++
		}
	}
	return count
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// weekStart truncates to midnight of the containing week's Sunday
func weekStart(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}
