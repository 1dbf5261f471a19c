// Package simulate runs side-by-side assignment simulations: each strategy
// independently picks one assignee per desk block across a schedule, so the
// resulting rosters can be compared.
package simulate

import (
	"fmt"

	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
)

// Strategy picks a single assignee per block from an eligible pool.
// Implementations carry run-local state (cursor, queue) and must not be
// shared across runs.
type Strategy interface {
	Name() model.Strategy

	// Pick selects one person from the pool, or reports false when the block
	// cannot be filled. The pool preserves the staff list's order.
	Pick(pool []model.Person) (model.Person, bool)
}

// New builds a fresh strategy instance. staff seeds strategies that need an
// initial ordering (round-robin's queue); it is the flat simulation staff
// list in its configured order.
func New(kind model.Strategy, staff []model.Person) (Strategy, error) {
	switch kind {
	case model.StrategyRotation:
		return &rotationStrategy{}, nil
	case model.StrategyRandom:
		return &randomStrategy{}, nil
	case model.StrategyRoundRobin:
		return newRoundRobinStrategy(staff), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", kind)
	}
}

// EligibleFunc reports whether a person can take a block, before the
// simulation's own daily cap is applied.
type EligibleFunc func(person model.Person, block model.WorkBlock) bool

// Run processes blocks in the order given (callers pass them chronologically;
// strategy state depends on prior blocks) and returns one assignment per
// block. A person assigned to any block on a day is excluded from the pool
// for that day's remaining blocks, whatever the strategy.
func Run(strategy Strategy, staff []model.Person, schedule []model.WorkBlock, eligible EligibleFunc) []model.SimulatedAssignment {
	assignments := make([]model.SimulatedAssignment, 0, len(schedule))
	assignedByDay := map[string]map[int]bool{}

	for _, block := range schedule {
		dayKey := block.Date.Format("2006-01-02")
		taken := assignedByDay[dayKey]

		pool := make([]model.Person, 0, len(staff))
		for _, person := range staff {
			if taken[person.ID] {
				continue
			}
			if eligible(person, block) {
				pool = append(pool, person)
			}
		}

		assignment := model.SimulatedAssignment{Block: block}
		if person, ok := strategy.Pick(pool); ok {
			assignment.Assignee = &person
			if taken == nil {
				taken = map[int]bool{}
				assignedByDay[dayKey] = taken
			}
			taken[person.ID] = true
		}
		assignments = append(assignments, assignment)
	}

	return assignments
}
