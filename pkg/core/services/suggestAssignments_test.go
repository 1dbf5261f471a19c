package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
)

func TestSuggestAssignments_OneWeekWindow(t *testing.T) {
	staffing := &mockStaffing{
		shifts: map[int][]model.RawShift{
			// Lisa already covers the Monday morning block
			77608: {{From: "2025-03-03 09:00:00", To: "2025-03-03 11:00:00", ScheduleName: "Reference Desk"}},
		},
	}
	calendar := &mockCalendar{}

	result, err := SuggestAssignments(context.Background(), staffing, calendar, testConfig(), zap.NewNop(), monday(), 7)
	require.NoError(t, err)

	// One templated Monday in the window, two blocks on it
	require.Len(t, result.Suggestions, 2)
	assert.Equal(t, 7, result.Days)

	morning := result.Suggestions[0]
	assert.Equal(t, 9.0, morning.Block.StartHour)

	// Lisa's shift makes her both occupied and the already-scheduled cover
	require.Len(t, morning.AlreadyScheduled, 1)
	assert.Equal(t, "Lisa Allen", morning.AlreadyScheduled[0].Name)

	require.Len(t, morning.Groups, 2)
	assert.Equal(t, "Adult Services", morning.Groups[0].GroupName)
	require.Len(t, morning.Groups[0].Candidates, 1)
	assert.Equal(t, "Emily Dowie", morning.Groups[0].Candidates[0].Person.Name)
	assert.Equal(t, "Youth Services", morning.Groups[1].GroupName)

	// Afternoon block: nobody is busy, everyone shows up
	afternoon := result.Suggestions[1]
	assert.Equal(t, 13.0, afternoon.Block.StartHour)
	assert.Empty(t, afternoon.AlreadyScheduled)
	require.Len(t, afternoon.Groups, 2)
	assert.Len(t, afternoon.Groups[0].Candidates, 2)
}

func TestSuggestAssignments_CandidatesOrderedByWeeklyLoad(t *testing.T) {
	staffing := &mockStaffing{
		shifts: map[int][]model.RawShift{
			// Emily carries two shifts earlier in the week, Lisa none
			49960: {
				{From: "2025-03-04 09:00:00", To: "2025-03-04 11:00:00", ScheduleName: "Desk"},
				{From: "2025-03-05 09:00:00", To: "2025-03-05 11:00:00", ScheduleName: "Desk"},
			},
		},
	}
	calendar := &mockCalendar{}

	result, err := SuggestAssignments(context.Background(), staffing, calendar, testConfig(), zap.NewNop(), monday(), 7)
	require.NoError(t, err)

	morning := result.Suggestions[0]
	adults := morning.Groups[0]
	require.Len(t, adults.Candidates, 2)
	assert.Equal(t, "Lisa Allen", adults.Candidates[0].Person.Name)
	assert.Equal(t, 0, adults.Candidates[0].WeeklyCount)
	assert.Equal(t, "Emily Dowie", adults.Candidates[1].Person.Name)
	assert.Equal(t, 2, adults.Candidates[1].WeeklyCount)
}

func TestSuggestAssignments_DefaultWindow(t *testing.T) {
	result, err := SuggestAssignments(context.Background(), &mockStaffing{}, &mockCalendar{}, testConfig(), zap.NewNop(), monday(), 0)
	require.NoError(t, err)

	// 14-day default covers two Mondays
	assert.Equal(t, 14, result.Days)
	assert.Len(t, result.Suggestions, 4)
}
