package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/greenburghlibrary/deskcheck/internal/config"
	"github.com/greenburghlibrary/deskcheck/pkg/core/blocks"
	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
	"github.com/greenburghlibrary/deskcheck/pkg/core/scheduler"
	"github.com/greenburghlibrary/deskcheck/pkg/metrics"
)

// SuggestResult is the suggester output for a requested window
type SuggestResult struct {
	RequestID   string
	From        time.Time
	Days        int
	Suggestions []model.AssignmentSuggestion
}

// SuggestAssignments builds per-block assignment suggestions over a date
// range: every configured group is evaluated for every block, with members
// ordered least-loaded first. days of 0 falls back to the configured window.
func SuggestAssignments(
	ctx context.Context,
	staffing StaffingSource,
	calendar CalendarSource,
	cfg *config.Config,
	logger *zap.Logger,
	start time.Time,
	days int,
) (*SuggestResult, error) {
	if days <= 0 {
		days = cfg.WindowDays
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
	logger.Debug("Expanded block template",
		zap.String("request_id", aggregate.RequestID),
		zap.Int("blocks", len(schedule)))

	timelinesByID := timelinesByPersonID(cfg, aggregate)
	groups := groupsFromConfig(cfg)
	evaluatorCaps := caps(cfg)

	suggestions := make([]model.AssignmentSuggestion, 0, len(schedule))
	unfillable := 0
	for _, block := range schedule {
		suggestion := scheduler.Suggest(block, groups, timelinesByID, cfg.PrimaryGroup, evaluatorCaps)
		suggestions = append(suggestions, suggestion)

		metrics.BlocksEvaluated.Inc()
		if len(suggestion.Groups) == 1 && suggestion.Groups[0].GroupName == model.NoAvailabilityGroup {
			metrics.BlocksUnfillable.Inc()
			unfillable++
		}
	}

	logger.Info("Suggestions built",
		zap.String("request_id", aggregate.RequestID),
		zap.Int("blocks", len(suggestions)),
		zap.Int("unfillable", unfillable))

	return &SuggestResult{
		RequestID:   aggregate.RequestID,
		From:        from,
		Days:        days,
		Suggestions: suggestions,
	}, nil
}

// timelinesByPersonID rekeys aggregated timelines from display name to
// staff ID for the evaluator
func timelinesByPersonID(cfg *config.Config, aggregate *AggregateResult) map[int]*model.PersonTimeline {
	byID := make(map[int]*model.PersonTimeline, len(cfg.Staff))
	for _, member := range cfg.Staff {
		if tl, ok := aggregate.Timelines[member.Name]; ok {
			byID[member.ID] = tl
		}
	}
	return byID
}
