package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
)

var (
	lisa   = model.Person{ID: 1, Name: "Lisa Allen"}
	emily  = model.Person{ID: 2, Name: "Emily Dowie"}
	gail   = model.Person{ID: 3, Name: "Gail Fell"}
	justin = model.Person{ID: 4, Name: "Justin Sanchez"}
)

func TestSuggest_SortsByWeeklyLoadAscending(t *testing.T) {
	// Weekly shift counts: lisa 2, emily 0, gail 5
	timelines := map[int]*model.PersonTimeline{
		lisa.ID: timelineOf(lisa.ID,
			interval(model.KindShift, "2025-03-04", 12, 13, "Desk"),
			interval(model.KindShift, "2025-03-05", 12, 13, "Desk"),
		),
		emily.ID: timelineOf(emily.ID),
		gail.ID: timelineOf(gail.ID,
			interval(model.KindShift, "2025-03-04", 12, 13, "Desk"),
			interval(model.KindShift, "2025-03-04", 14, 15, "Desk"),
			interval(model.KindShift, "2025-03-05", 12, 13, "Desk"),
			interval(model.KindShift, "2025-03-06", 12, 13, "Desk"),
			interval(model.KindShift, "2025-03-07", 12, 13, "Desk"),
		),
	}
	groups := []model.Group{{Name: "AS", Members: []model.Person{lisa, emily, gail}}}

	suggestion := Suggest(mondayBlock(9, 11), groups, timelines, "AS", DefaultCaps)
	require.Len(t, suggestion.Groups, 1)
	candidates := suggestion.Groups[0].Candidates
	require.Len(t, candidates, 3)

	assert.Equal(t, emily, candidates[0].Person)
	assert.Equal(t, 0, candidates[0].WeeklyCount)
	assert.Equal(t, lisa, candidates[1].Person)
	assert.Equal(t, 2, candidates[1].WeeklyCount)
	assert.Equal(t, gail, candidates[2].Person)
	assert.Equal(t, 5, candidates[2].WeeklyCount)
}

func TestSuggest_AllGroupsReported(t *testing.T) {
	timelines := map[int]*model.PersonTimeline{}
	groups := []model.Group{
		{Name: "Adult Services", Members: []model.Person{lisa}},
		{Name: "Youth Services", Members: []model.Person{emily}},
	}

	suggestion := Suggest(mondayBlock(9, 11), groups, timelines, "Adult Services", DefaultCaps)

	// Both groups have eligible members; neither is short-circuited away
	require.Len(t, suggestion.Groups, 2)
	assert.Equal(t, "Adult Services", suggestion.Groups[0].GroupName)
	assert.Equal(t, "Youth Services", suggestion.Groups[1].GroupName)
}

func TestSuggest_EmptyGroupsOmitted(t *testing.T) {
	timelines := map[int]*model.PersonTimeline{
		lisa.ID: timelineOf(lisa.ID, interval(model.KindTimeOff, "2025-03-03", 9, 17, "Vacation")),
	}
	groups := []model.Group{
		{Name: "Adult Services", Members: []model.Person{lisa}},
		{Name: "Youth Services", Members: []model.Person{emily}},
	}

	suggestion := Suggest(mondayBlock(9, 11), groups, timelines, "Adult Services", DefaultCaps)
	require.Len(t, suggestion.Groups, 1)
	assert.Equal(t, "Youth Services", suggestion.Groups[0].GroupName)
}

func TestSuggest_SentinelWhenNoOneAvailable(t *testing.T) {
	timelines := map[int]*model.PersonTimeline{
		lisa.ID:  timelineOf(lisa.ID, interval(model.KindTimeOff, "2025-03-03", 9, 17, "Vacation")),
		emily.ID: timelineOf(emily.ID, interval(model.KindShift, "2025-03-03", 9, 12, "Desk")),
	}
	groups := []model.Group{
		{Name: "Adult Services", Members: []model.Person{lisa, emily}},
	}

	suggestion := Suggest(mondayBlock(9, 11), groups, timelines, "Adult Services", DefaultCaps)
	require.Len(t, suggestion.Groups, 1)
	assert.Equal(t, model.NoAvailabilityGroup, suggestion.Groups[0].GroupName)
	assert.Empty(t, suggestion.Groups[0].Candidates)
}

func TestSuggest_AlreadyScheduledExcludesClosingShifts(t *testing.T) {
	timelines := map[int]*model.PersonTimeline{
		// Overlapping shift titled "Closing" - not desk coverage
		lisa.ID: timelineOf(lisa.ID, interval(model.KindShift, "2025-03-03", 9, 11, "Closing")),
		// Overlapping shift titled "Desk Coverage" - counts
		emily.ID: timelineOf(emily.ID, interval(model.KindShift, "2025-03-03", 9, 11, "Desk Coverage")),
		// Overlapping shift titled "Day Off Swap" - not coverage
		gail.ID: timelineOf(gail.ID, interval(model.KindShift, "2025-03-03", 9, 11, "Day Off Swap")),
		// Overlapping time off - never coverage regardless of title
		justin.ID: timelineOf(justin.ID, interval(model.KindTimeOff, "2025-03-03", 9, 11, "Desk Coverage")),
	}
	groups := []model.Group{
		{Name: "Adult Services", Members: []model.Person{lisa, emily, gail, justin}},
	}

	suggestion := Suggest(mondayBlock(9, 11), groups, timelines, "Adult Services", DefaultCaps)
	assert.Equal(t, []model.Person{emily}, suggestion.AlreadyScheduled)
}

func TestSuggest_AlreadyScheduledOnlyPrimaryGroup(t *testing.T) {
	timelines := map[int]*model.PersonTimeline{
		lisa.ID:  timelineOf(lisa.ID, interval(model.KindShift, "2025-03-03", 9, 11, "Desk")),
		emily.ID: timelineOf(emily.ID, interval(model.KindShift, "2025-03-03", 9, 11, "Desk")),
	}
	groups := []model.Group{
		{Name: "Adult Services", Members: []model.Person{lisa}},
		{Name: "Youth Services", Members: []model.Person{emily}},
	}

	suggestion := Suggest(mondayBlock(9, 11), groups, timelines, "Adult Services", DefaultCaps)
	assert.Equal(t, []model.Person{lisa}, suggestion.AlreadyScheduled)
}

func TestSuggest_CaseInsensitiveTitleMatch(t *testing.T) {
	timelines := map[int]*model.PersonTimeline{
		lisa.ID: timelineOf(lisa.ID, interval(model.KindShift, "2025-03-03", 9, 11, "CLOSER duty")),
	}
	groups := []model.Group{
		{Name: "Adult Services", Members: []model.Person{lisa}},
	}

	suggestion := Suggest(mondayBlock(9, 11), groups, timelines, "Adult Services", DefaultCaps)
	assert.Empty(t, suggestion.AlreadyScheduled)
}
