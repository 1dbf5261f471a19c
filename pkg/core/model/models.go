package model

import "time"

// Kind identifies the source a busy interval was built from
type Kind string

const (
	KindShift       Kind = "Shift"
	KindTimeOff     Kind = "Time Off"
	KindEvent       Kind = "Event"
	KindAppointment Kind = "Appointment"
)

func (k Kind) IsValid() bool {
	return k == KindShift || k == KindTimeOff || k == KindEvent || k == KindAppointment
}

// BusyInterval is a single commitment on a person's timeline.
// Invariant: Start < End. Immutable once built.
type BusyInterval struct {
	Kind  Kind
	Start time.Time
	End   time.Time
	Label string // display label: schedule name, time-off category, event title
	Title string // raw upstream title, used for desk-coverage matching
}

// Overlaps reports whether the interval overlaps [start, end) using the
// open-interval test.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

// Overlapping reports whether two intervals overlap. Symmetric, and
// irreflexive across distinct intervals on a well-formed timeline.
func Overlapping(a, b BusyInterval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// PersonTimeline is one person's merged commitments for the requested window,
// sorted ascending by start. Conflicts is indexed alongside Intervals: entry i
// is true iff interval i overlaps at least one other interval in the timeline.
// Built fresh per request, never persisted.
type PersonTimeline struct {
	PersonID  int
	Intervals []BusyInterval
	Conflicts []bool
}

// HasConflict reports whether interval i participates in any overlap
func (t *PersonTimeline) HasConflict(i int) bool {
	return i >= 0 && i < len(t.Conflicts) && t.Conflicts[i]
}

// WorkBlock is a concrete desk block on a specific date. Hours are fractional
// clock hours in the block's local day (19.5 = 7:30pm).
type WorkBlock struct {
	Date      time.Time // midnight of the block's day in the configured location
	StartHour float64
	EndHour   float64
	Weekday   time.Weekday
}

// Start returns the block's starting instant
func (b WorkBlock) Start() time.Time {
	return b.Date.Add(time.Duration(b.StartHour * float64(time.Hour)))
}

// End returns the block's ending instant
func (b WorkBlock) End() time.Time {
	return b.Date.Add(time.Duration(b.EndHour * float64(time.Hour)))
}

// Person is a roster entry
type Person struct {
	ID   int
	Name string
}

// Group is a named set of staff. Groups are evaluated in the order they appear
// in configuration; membership is treated as exclusive per group for load
// accounting.
type Group struct {
	Name    string
	Members []Person
}

// Eligibility is the outcome of evaluating one (person, block) pair
type Eligibility struct {
	Eligible      bool
	DailyCount    int
	WeeklyCount   int
	AdjacencyNote string // "Prior: ..." or "Later: ...", empty if no same-day shift
}

// Candidate is an eligible person with their load annotations for one block
type Candidate struct {
	Person        Person
	DailyCount    int
	WeeklyCount   int
	AdjacencyNote string
}

// GroupCandidates is the eligible members of one group for one block,
// sorted ascending by weekly shift count
type GroupCandidates struct {
	GroupName  string
	Candidates []Candidate
}

// NoAvailabilityGroup is the sentinel group name emitted when no group has any
// eligible member for a block.
const NoAvailabilityGroup = "No one available"

// AssignmentSuggestion is the suggester output for a single block
type AssignmentSuggestion struct {
	Block            WorkBlock
	Groups           []GroupCandidates
	AlreadyScheduled []Person
}

// Strategy selects how the simulator picks one assignee per block
type Strategy string

const (
	StrategyRotation   Strategy = "rotation"
	StrategyRandom     Strategy = "random"
	StrategyRoundRobin Strategy = "roundrobin"
)

func (s Strategy) IsValid() bool {
	return s == StrategyRotation || s == StrategyRandom || s == StrategyRoundRobin
}

// Strategies lists all simulation strategies in presentation order
func Strategies() []Strategy {
	return []Strategy{StrategyRotation, StrategyRandom, StrategyRoundRobin}
}

// SimulatedAssignment is one strategy's pick for one block. Assignee is nil
// when the block could not be filled.
type SimulatedAssignment struct {
	Block    WorkBlock
	Assignee *Person
}

// RawShift is a shift record as deserialized from the staffing provider.
// Timestamps are kept as strings; a record with a malformed timestamp is
// skipped on its own during timeline building.
type RawShift struct {
	From         string
	To           string
	ScheduleName string
}

// RawTimeOff is an approved time-off record from the staffing provider
type RawTimeOff struct {
	From     string
	To       string
	Category string
}

// RawEvent is a calendar event record from the calendar provider
type RawEvent struct {
	Start     string
	End       string
	Title     string
	OwnerName string
}

// RawAppointment is a booked appointment record from the calendar provider
type RawAppointment struct {
	From     string
	To       string
	WithName string
}
