package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/greenburghlibrary/deskcheck/internal/config"
	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
	"github.com/greenburghlibrary/deskcheck/pkg/core/timeline"
	"github.com/greenburghlibrary/deskcheck/pkg/metrics"
)

// StaffingSource is the slice of the staffing provider the aggregation needs
type StaffingSource interface {
	GetShifts(ctx context.Context, userID, scheduleID int, from string, days int) ([]model.RawShift, error)
	GetTimeOff(ctx context.Context, userID int, from string, days int) ([]model.RawTimeOff, error)
}

// CalendarSource is the slice of the calendar provider the aggregation needs
type CalendarSource interface {
	GetEvents(ctx context.Context, calendarID int, from string, days int) ([]model.RawEvent, error)
	GetAppointments(ctx context.Context, ownerUserID int, from string, days int) ([]model.RawAppointment, error)
}

// AggregateResult holds every staff member's conflict-flagged timeline for
// one request window
type AggregateResult struct {
	RequestID      string
	From           time.Time
	Days           int
	Timelines      map[string]*model.PersonTimeline // keyed by display name
	SkippedRecords int
}

// AggregateConflicts fetches every staff member's commitments from all four
// source kinds and builds their conflict-flagged timelines. Fetches for
// distinct people and calendars run in parallel; the first fetch failure
// cancels the rest and fails the whole request. A person's timeline is only
// flagged once all of their sources are merged.
func AggregateConflicts(
	ctx context.Context,
	staffing StaffingSource,
	calendar CalendarSource,
	cfg *config.Config,
	logger *zap.Logger,
	start time.Time,
) (*AggregateResult, error) {
	requestID := uuid.NewString()
	loc := cfg.Location()
	from := dayStart(start, loc)
	fromStr := from.Format("2006-01-02")
	days := cfg.WindowDays

	logger.Info("Aggregating conflicts",
		zap.String("request_id", requestID),
		zap.String("from", fromStr),
		zap.Int("days", days),
		zap.Int("staff", len(cfg.Staff)))

	// Index-aligned scratch space: each goroutine writes only its own slot,
	// so no locking is needed
	perPerson := make([]timeline.Sources, len(cfg.Staff))
	eventsByCalendar := make([][]model.RawEvent, len(cfg.CalendarIDs))
	var appointments []model.RawAppointment

	g, gctx := errgroup.WithContext(ctx)

	for i, member := range cfg.Staff {
		g.Go(func() error {
			for _, scheduleID := range cfg.ScheduleIDs {
				shifts, err := staffing.GetShifts(gctx, member.ID, scheduleID, fromStr, days)
				if err != nil {
					metrics.UpstreamRequests.WithLabelValues("shifts", "error").Inc()
					return &FetchError{Source: "shifts", Scope: member.Name, Err: err}
				}
				metrics.UpstreamRequests.WithLabelValues("shifts", "success").Inc()
				perPerson[i].Shifts = append(perPerson[i].Shifts, shifts...)
			}

			timeOff, err := staffing.GetTimeOff(gctx, member.ID, fromStr, days)
			if err != nil {
				metrics.UpstreamRequests.WithLabelValues("timeoff", "error").Inc()
				return &FetchError{Source: "timeoff", Scope: member.Name, Err: err}
			}
			metrics.UpstreamRequests.WithLabelValues("timeoff", "success").Inc()
			perPerson[i].TimeOff = timeOff
			return nil
		})
	}

	for i, calendarID := range cfg.CalendarIDs {
		g.Go(func() error {
			events, err := calendar.GetEvents(gctx, calendarID, fromStr, days)
			if err != nil {
				metrics.UpstreamRequests.WithLabelValues("events", "error").Inc()
				return &FetchError{Source: "events", Scope: fmt.Sprintf("calendar %d", calendarID), Err: err}
			}
			metrics.UpstreamRequests.WithLabelValues("events", "success").Inc()
			eventsByCalendar[i] = events
			return nil
		})
	}

	g.Go(func() error {
		fetched, err := calendar.GetAppointments(gctx, cfg.AppointmentOwnerID, fromStr, days)
		if err != nil {
			metrics.UpstreamRequests.WithLabelValues("appointments", "error").Inc()
			return &FetchError{Source: "appointments", Scope: fmt.Sprintf("owner %d", cfg.AppointmentOwnerID), Err: err}
		}
		metrics.UpstreamRequests.WithLabelValues("appointments", "success").Inc()
		appointments = fetched
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Aggregation fetch failed", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	// Attribute calendar-wide records to staff by name before flagging
	indexByName := make(map[string]int, len(cfg.Staff))
	for i, member := range cfg.Staff {
		indexByName[member.Name] = i
	}
	for _, events := range eventsByCalendar {
		for _, event := range events {
			if i, ok := indexByName[event.OwnerName]; ok {
				perPerson[i].Events = append(perPerson[i].Events, event)
			}
		}
	}
	for _, appointment := range appointments {
		if i, ok := indexByName[appointment.WithName]; ok {
			perPerson[i].Appointments = append(perPerson[i].Appointments, appointment)
		}
	}

	result := &AggregateResult{
		RequestID: requestID,
		From:      from,
		Days:      days,
		Timelines: make(map[string]*model.PersonTimeline, len(cfg.Staff)),
	}

	hours := businessHours(cfg)
	for i, member := range cfg.Staff {
		tl, skipped := timeline.Build(member.ID, perPerson[i], hours, loc)
		result.Timelines[member.Name] = tl
		result.SkippedRecords += skipped

		conflicts := 0
		for _, flagged := range tl.Conflicts {
			if flagged {
				conflicts++
			}
		}
		metrics.ConflictsFlagged.Add(float64(conflicts))
		if skipped > 0 {
			logger.Debug("Skipped malformed records",
				zap.String("request_id", requestID),
				zap.String("person", member.Name),
				zap.Int("skipped", skipped))
		}
	}
	metrics.RecordsSkipped.Add(float64(result.SkippedRecords))

	logger.Info("Aggregation complete",
		zap.String("request_id", requestID),
		zap.Int("timelines", len(result.Timelines)),
		zap.Int("skipped_records", result.SkippedRecords))

	return result, nil
}
