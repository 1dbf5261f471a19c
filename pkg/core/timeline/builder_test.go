package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
)

var testLoc = time.FixedZone("EST", -5*3600)

func interval(kind model.Kind, day string, startHour, endHour float64) model.BusyInterval {
	date, _ := time.ParseInLocation("2006-01-02", day, testLoc)
	return model.BusyInterval{
		Kind:  kind,
		Start: date.Add(time.Duration(startHour * float64(time.Hour))),
		End:   date.Add(time.Duration(endHour * float64(time.Hour))),
	}
}

func TestBuild_SortsAndFlagsOverlaps(t *testing.T) {
	// Shift 9-11 and time off 10-12 overlap; a later shift 13-15 does not
	src := Sources{
		Shifts: []model.RawShift{
			{From: "2025-03-03 13:00:00", To: "2025-03-03 15:00:00", ScheduleName: "Reference Desk"},
			{From: "2025-03-03 09:00:00", To: "2025-03-03 11:00:00", ScheduleName: "Reference Desk"},
		},
		TimeOff: []model.RawTimeOff{
			{From: "2025-03-03 10:00:00", To: "2025-03-03 12:00:00", Category: "Vacation"},
		},
	}

	tl, skipped := Build(77608, src, DefaultBusinessHours, testLoc)
	require.NotNil(t, tl)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 77608, tl.PersonID)
	require.Len(t, tl.Intervals, 3)

	// Sorted ascending by start
	assert.Equal(t, 9, tl.Intervals[0].Start.Hour())
	assert.Equal(t, 10, tl.Intervals[1].Start.Hour())
	assert.Equal(t, 13, tl.Intervals[2].Start.Hour())

	// Both overlapping intervals flagged, third untouched
	assert.True(t, tl.HasConflict(0))
	assert.True(t, tl.HasConflict(1))
	assert.False(t, tl.HasConflict(2))
}

func TestBuild_SkipsMalformedRecordsOnly(t *testing.T) {
	src := Sources{
		Shifts: []model.RawShift{
			{From: "not-a-timestamp", To: "2025-03-03 15:00:00", ScheduleName: "Desk"},
			{From: "2025-03-03 09:00:00", To: "2025-03-03 11:00:00", ScheduleName: "Desk"},
			{From: "2025-03-03 12:00:00", To: "also-bad", ScheduleName: "Desk"},
		},
	}

	tl, skipped := Build(1, src, DefaultBusinessHours, testLoc)
	assert.Equal(t, 2, skipped)
	require.Len(t, tl.Intervals, 1)
	assert.Equal(t, 9, tl.Intervals[0].Start.Hour())
}

func TestBuild_SkipsInvertedRange(t *testing.T) {
	src := Sources{
		Shifts: []model.RawShift{
			{From: "2025-03-03 15:00:00", To: "2025-03-03 14:00:00", ScheduleName: "Desk"},
		},
	}

	tl, skipped := Build(1, src, DefaultBusinessHours, testLoc)
	assert.Equal(t, 1, skipped)
	assert.Empty(t, tl.Intervals)
}

func TestBuild_DropsOutOfHoursWhole(t *testing.T) {
	src := Sources{
		Shifts: []model.RawShift{
			// Starts before opening - dropped, not clipped
			{From: "2025-03-03 08:30:00", To: "2025-03-03 12:00:00", ScheduleName: "Early"},
			// Ends after closing - dropped
			{From: "2025-03-03 19:00:00", To: "2025-03-03 21:01:00", ScheduleName: "Late"},
			// Exactly on the bounds - kept
			{From: "2025-03-03 09:00:00", To: "2025-03-03 21:00:00", ScheduleName: "AllDay"},
		},
	}

	tl, skipped := Build(1, src, DefaultBusinessHours, testLoc)
	assert.Equal(t, 0, skipped) // out-of-hours is filtering, not malformed
	require.Len(t, tl.Intervals, 1)
	assert.Equal(t, "AllDay", tl.Intervals[0].Label)
}

func TestBuild_LabelsPerSourceKind(t *testing.T) {
	src := Sources{
		Shifts:       []model.RawShift{{From: "2025-03-03 09:00:00", To: "2025-03-03 11:00:00", ScheduleName: "Circulation"}},
		TimeOff:      []model.RawTimeOff{{From: "2025-03-04 09:00:00", To: "2025-03-04 11:00:00", Category: "Sick"}},
		Events:       []model.RawEvent{{Start: "2025-03-05 09:00:00", End: "2025-03-05 11:00:00", Title: "Story Time"}},
		Appointments: []model.RawAppointment{{From: "2025-03-06 09:00:00", To: "2025-03-06 11:00:00"}},
	}

	tl, _ := Build(1, src, DefaultBusinessHours, testLoc)
	require.Len(t, tl.Intervals, 4)

	byKind := map[model.Kind]model.BusyInterval{}
	for _, iv := range tl.Intervals {
		byKind[iv.Kind] = iv
	}
	assert.Equal(t, "Circulation", byKind[model.KindShift].Label)
	assert.Equal(t, "Sick", byKind[model.KindTimeOff].Label)
	assert.Equal(t, "Story Time", byKind[model.KindEvent].Label)
	assert.Equal(t, "Appointment", byKind[model.KindAppointment].Label)
}

func TestBuild_StableOrderForEqualStarts(t *testing.T) {
	src := Sources{
		Shifts: []model.RawShift{
			{From: "2025-03-03 09:00:00", To: "2025-03-03 10:00:00", ScheduleName: "First"},
			{From: "2025-03-03 09:00:00", To: "2025-03-03 11:00:00", ScheduleName: "Second"},
		},
	}

	tl, _ := Build(1, src, DefaultBusinessHours, testLoc)
	require.Len(t, tl.Intervals, 2)
	assert.Equal(t, "First", tl.Intervals[0].Label)
	assert.Equal(t, "Second", tl.Intervals[1].Label)
}

func TestFlagConflicts_SymmetricAndIrreflexive(t *testing.T) {
	a := interval(model.KindShift, "2025-03-03", 9, 11)
	b := interval(model.KindTimeOff, "2025-03-03", 10, 12)

	assert.Equal(t, model.Overlapping(a, b), model.Overlapping(b, a))

	// A lone interval never conflicts with itself
	flags := FlagConflicts([]model.BusyInterval{a})
	assert.Equal(t, []bool{false}, flags)
}

func TestFlagConflicts_AllParticipantsFlagged(t *testing.T) {
	// One long interval overlapping two disjoint short ones: all three flagged
	long := interval(model.KindShift, "2025-03-03", 9, 15)
	first := interval(model.KindEvent, "2025-03-03", 9.5, 10)
	second := interval(model.KindEvent, "2025-03-03", 13, 14)

	flags := FlagConflicts([]model.BusyInterval{long, first, second})
	assert.Equal(t, []bool{true, true, true}, flags)
}

func TestFlagConflicts_TouchingIntervalsDoNotConflict(t *testing.T) {
	a := interval(model.KindShift, "2025-03-03", 9, 11)
	b := interval(model.KindShift, "2025-03-03", 11, 13)

	flags := FlagConflicts([]model.BusyInterval{a, b})
	assert.Equal(t, []bool{false, false}, flags)
}

func TestWithinBusinessHours_Idempotent(t *testing.T) {
	src := Sources{
		Shifts: []model.RawShift{
			{From: "2025-03-03 08:00:00", To: "2025-03-03 10:00:00", ScheduleName: "Early"},
			{From: "2025-03-03 09:00:00", To: "2025-03-03 17:00:00", ScheduleName: "Day"},
			{From: "2025-03-03 18:00:00", To: "2025-03-03 22:00:00", ScheduleName: "Night"},
		},
	}

	tl, _ := Build(1, src, DefaultBusinessHours, testLoc)

	// Re-filtering the admitted set changes nothing
	for _, iv := range tl.Intervals {
		assert.True(t, WithinBusinessHours(iv.Start, iv.End, DefaultBusinessHours))
	}
	require.Len(t, tl.Intervals, 1)
	assert.Equal(t, "Day", tl.Intervals[0].Label)
}

func TestParseTimestamp_AcceptsUpstreamLayouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"rfc3339", "2025-03-03T09:00:00-05:00"},
		{"iso no offset", "2025-03-03T09:00:00"},
		{"space separated", "2025-03-03 09:00:00"},
		{"minute precision", "2025-03-03 09:00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts, err := ParseTimestamp(tc.input, testLoc)
			require.NoError(t, err)
			assert.Equal(t, 9, ts.Hour())
		})
	}

	_, err := ParseTimestamp("03/03/2025", testLoc)
	assert.Error(t, err)
}
