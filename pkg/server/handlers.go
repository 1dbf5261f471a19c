package server

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
	"github.com/greenburghlibrary/deskcheck/pkg/core/services"
)

const dateParamLayout = "2006-01-02"

type intervalView struct {
	Kind     string `json:"kind"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Label    string `json:"label"`
	Conflict bool   `json:"conflict"`
}

type personScheduleView struct {
	Name      string         `json:"name"`
	Intervals []intervalView `json:"intervals"`
}

type blockView struct {
	Date    string  `json:"date"`
	Weekday string  `json:"weekday"`
	Start   string  `json:"start"`
	End     string  `json:"end"`
	StartHr float64 `json:"startHour"`
	EndHr   float64 `json:"endHour"`
}

type candidateView struct {
	Name        string `json:"name"`
	DailyCount  int    `json:"dailyCount"`
	WeeklyCount int    `json:"weeklyCount"`
	Adjacency   string `json:"adjacency,omitempty"`
}

type groupCandidatesView struct {
	Group      string          `json:"group"`
	Candidates []candidateView `json:"candidates"`
}

type suggestionView struct {
	Block            blockView             `json:"block"`
	AlreadyScheduled []string              `json:"alreadyScheduled"`
	Groups           []groupCandidatesView `json:"groups"`
}

type assignmentView struct {
	Block    blockView `json:"block"`
	Assignee *string   `json:"assignee"`
}

// windowParams reads the shared start/days query parameters. start defaults
// to the current instant, days to 0 so the service applies its configured
// fallback.
func (s *Server) windowParams(c *gin.Context) (time.Time, int, bool) {
	start := time.Now()
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.ParseInLocation(dateParamLayout, raw, s.cfg.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be formatted YYYY-MM-DD"})
			return time.Time{}, 0, false
		}
		start = parsed
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return time.Time{}, 0, false
		}
		days = parsed
	}
	return start, days, true
}

func (s *Server) getConflicts(c *gin.Context) {
	// The conflict window is fixed by configuration; days is accepted but
	// only meaningful for suggestions and simulations
	start, _, ok := s.windowParams(c)
	if !ok {
		return
	}

	result, err := services.AggregateConflicts(c.Request.Context(), s.staffing, s.calendar, s.cfg, s.logger, start)
	if err != nil {
		s.renderError(c, err)
		return
	}

	staff := make([]personScheduleView, 0, len(result.Timelines))
	for name, tl := range result.Timelines {
		view := personScheduleView{Name: name, Intervals: make([]intervalView, 0, len(tl.Intervals))}
		for i, iv := range tl.Intervals {
			view.Intervals = append(view.Intervals, intervalView{
				Kind:     string(iv.Kind),
				Start:    iv.Start.Format(time.RFC3339),
				End:      iv.End.Format(time.RFC3339),
				Label:    iv.Label,
				Conflict: tl.HasConflict(i),
			})
		}
		staff = append(staff, view)
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].Name < staff[j].Name })

	c.JSON(http.StatusOK, gin.H{
		"requestId":      result.RequestID,
		"from":           result.From.Format(dateParamLayout),
		"days":           result.Days,
		"skippedRecords": result.SkippedRecords,
		"staff":          staff,
	})
}

func (s *Server) getSuggestions(c *gin.Context) {
	start, days, ok := s.windowParams(c)
	if !ok {
		return
	}

	result, err := services.SuggestAssignments(c.Request.Context(), s.staffing, s.calendar, s.cfg, s.logger, start, days)
	if err != nil {
		s.renderError(c, err)
		return
	}

	suggestions := make([]suggestionView, 0, len(result.Suggestions))
	for _, suggestion := range result.Suggestions {
		view := suggestionView{
			Block:            newBlockView(suggestion.Block),
			AlreadyScheduled: personNames(suggestion.AlreadyScheduled),
			Groups:           make([]groupCandidatesView, 0, len(suggestion.Groups)),
		}
		for _, group := range suggestion.Groups {
			gv := groupCandidatesView{Group: group.GroupName, Candidates: make([]candidateView, 0, len(group.Candidates))}
			for _, candidate := range group.Candidates {
				gv.Candidates = append(gv.Candidates, candidateView{
					Name:        candidate.Person.Name,
					DailyCount:  candidate.DailyCount,
					WeeklyCount: candidate.WeeklyCount,
					Adjacency:   candidate.AdjacencyNote,
				})
			}
			view.Groups = append(view.Groups, gv)
		}
		suggestions = append(suggestions, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"requestId":   result.RequestID,
		"from":        result.From.Format(dateParamLayout),
		"days":        result.Days,
		"suggestions": suggestions,
	})
}

func (s *Server) getSimulations(c *gin.Context) {
	start, days, ok := s.windowParams(c)
	if !ok {
		return
	}

	var strategies []model.Strategy
	for _, raw := range c.QueryArray("strategy") {
		strategies = append(strategies, model.Strategy(raw))
	}

	result, err := services.SimulateAssignments(c.Request.Context(), s.staffing, s.calendar, s.cfg, s.logger, strategies, start, days)
	if err != nil {
		s.renderError(c, err)
		return
	}

	runs := make(map[string][]assignmentView, len(result.Assignments))
	for strategy, assignments := range result.Assignments {
		views := make([]assignmentView, 0, len(assignments))
		for _, assignment := range assignments {
			view := assignmentView{Block: newBlockView(assignment.Block)}
			if assignment.Assignee != nil {
				name := assignment.Assignee.Name
				view.Assignee = &name
			}
			views = append(views, view)
		}
		runs[string(strategy)] = views
	}

	c.JSON(http.StatusOK, gin.H{
		"requestId":  result.RequestID,
		"from":       result.From.Format(dateParamLayout),
		"days":       result.Days,
		"strategies": runs,
	})
}

// renderError maps service failures to status codes: upstream fetch failures
// surface as 502, bad requests as 400, anything else as 500.
func (s *Server) renderError(c *gin.Context, err error) {
	var fetchErr *services.FetchError
	switch {
	case errors.As(err, &fetchErr):
		s.logger.Error("Upstream fetch failed",
			zap.String("source", fetchErr.Source),
			zap.String("scope", fetchErr.Scope),
			zap.Error(fetchErr.Err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnknownStrategy):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func newBlockView(block model.WorkBlock) blockView {
	return blockView{
		Date:    block.Date.Format(dateParamLayout),
		Weekday: block.Weekday.String(),
		Start:   block.Start().Format(time.RFC3339),
		End:     block.End().Format(time.RFC3339),
		StartHr: block.StartHour,
		EndHr:   block.EndHour,
	}
}

func personNames(people []model.Person) []string {
	names := make([]string, 0, len(people))
	for _, person := range people {
		names = append(names, person.Name)
	}
	return names
}
