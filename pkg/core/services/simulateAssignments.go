package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/greenburghlibrary/deskcheck/internal/config"
	"github.com/greenburghlibrary/deskcheck/pkg/core/blocks"
	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
	"github.com/greenburghlibrary/deskcheck/pkg/core/scheduler"
	"github.com/greenburghlibrary/deskcheck/pkg/core/simulate"
	"github.com/greenburghlibrary/deskcheck/pkg/metrics"
)

// SimulateResult carries one assignment sequence per requested strategy over
// the same schedule, for side-by-side comparison
type SimulateResult struct {
	RequestID   string
	From        time.Time
	Days        int
	Assignments map[model.Strategy][]model.SimulatedAssignment
}

// SimulateAssignments runs each requested strategy over the expanded block
// schedule. Strategy runs share the read-only timelines but are otherwise
// independent, so they execute concurrently; within a run blocks are
// processed chronologically. days of 0 falls back to the configured
// comparison window.
func SimulateAssignments(
	ctx context.Context,
	staffing StaffingSource,
	calendar CalendarSource,
	cfg *config.Config,
	logger *zap.Logger,
	strategies []model.Strategy,
	start time.Time,
	days int,
) (*SimulateResult, error) {
	if days <= 0 {
		days = cfg.SimulationDays
	}
	if len(strategies) == 0 {
		strategies = model.Strategies()
	}
	for _, strategy := range strategies {
		if !strategy.IsValid() {
			return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, strategy)
		}
	}

	aggregate, err := AggregateConflicts(ctx, staffing, calendar, cfg, logger, start)
	if err != nil {
		return nil, err
	}

	loc := cfg.Location()
	from := dayStart(start, loc)
	until := from.AddDate(0, 0, days)

	schedule, err := blocks.Expand(from, until, weekdayTemplate(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to expand block template: %w", err)
	}

	staff := simulationStaff(cfg)
	timelinesByID := timelinesByPersonID(cfg, aggregate)
	evaluatorCaps := caps(cfg)

	eligible := func(person model.Person, block model.WorkBlock) bool {
		if blackedOut(cfg.Blackouts, person, block) {
			return false
		}
		return scheduler.Evaluate(block, timelinesByID[person.ID], evaluatorCaps).Eligible
	}

	result := &SimulateResult{
		RequestID:   aggregate.RequestID,
		From:        from,
		Days:        days,
		Assignments: make(map[model.Strategy][]model.SimulatedAssignment, len(strategies)),
	}

	// Index-aligned so each goroutine writes only its own slot
	runs := make([][]model.SimulatedAssignment, len(strategies))

	g, _ := errgroup.WithContext(ctx)
	for i, strategy := range strategies {
		g.Go(func() error {
			picker, err := simulate.New(strategy, staff)
			if err != nil {
				return err
			}

			assignments := simulate.Run(picker, staff, schedule, eligible)

			filled := 0
			for _, assignment := range assignments {
				if assignment.Assignee != nil {
					filled++
					metrics.SimulatedAssignments.WithLabelValues(string(strategy), "assigned").Inc()
				} else {
					metrics.SimulatedAssignments.WithLabelValues(string(strategy), "unfilled").Inc()
				}
			}
			logger.Debug("Strategy run complete",
				zap.String("request_id", aggregate.RequestID),
				zap.String("strategy", string(strategy)),
				zap.Int("filled", filled),
				zap.Int("blocks", len(assignments)))

			runs[i] = assignments
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, strategy := range strategies {
		result.Assignments[strategy] = runs[i]
	}

	logger.Info("Simulation complete",
		zap.String("request_id", aggregate.RequestID),
		zap.Int("strategies", len(strategies)),
		zap.Int("blocks", len(schedule)))

	return result, nil
}
