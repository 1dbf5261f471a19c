package scheduler

import (
	"sort"
	"strings"

	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
)

// nonCoverageMarkers are title substrings that mean a shift does not put the
// person at the desk (administrative, off-desk, or closing-only duty).
var nonCoverageMarkers = []string{"off", "close", "closer"}

// Suggest evaluates every group, in priority order, against a block and
// returns the non-empty ones with members sorted ascending by weekly shift
// count. Every group is evaluated; the priority order only controls the order
// groups appear in the result. When no group has an eligible member the
// result carries a single sentinel entry rather than an empty list.
func Suggest(
	block model.WorkBlock,
	groups []model.Group,
	timelines map[int]*model.PersonTimeline,
	primaryGroup string,
	caps Caps,
) model.AssignmentSuggestion {
	suggestion := model.AssignmentSuggestion{
		Block:            block,
		Groups:           []model.GroupCandidates{},
		AlreadyScheduled: []model.Person{},
	}

	// Computed independently of eligibility: someone over their caps is still
	// concretely at the desk
	for _, group := range groups {
		if group.Name == primaryGroup {
			suggestion.AlreadyScheduled = alreadyScheduled(block, group, timelines)
			break
		}
	}

	for _, group := range groups {
		candidates := make([]model.Candidate, 0, len(group.Members))
		for _, person := range group.Members {
			eligibility := Evaluate(block, timelines[person.ID], caps)
			if !eligibility.Eligible {
				continue
			}
			candidates = append(candidates, model.Candidate{
				Person:        person,
				DailyCount:    eligibility.DailyCount,
				WeeklyCount:   eligibility.WeeklyCount,
				AdjacencyNote: eligibility.AdjacencyNote,
			})
		}
		if len(candidates) == 0 {
			continue
		}

		// Least-loaded first; stable so ties keep roster order
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].WeeklyCount < candidates[j].WeeklyCount
		})

		suggestion.Groups = append(suggestion.Groups, model.GroupCandidates{
			GroupName:  group.Name,
			Candidates: candidates,
		})
	}

	if len(suggestion.Groups) == 0 {
		suggestion.Groups = append(suggestion.Groups, model.GroupCandidates{
			GroupName: model.NoAvailabilityGroup,
		})
	}

	return suggestion
}

// alreadyScheduled finds group members with a desk-covering shift overlapping
// the block. A shift whose title mentions being off or closing doesn't count
// as desk coverage.
func alreadyScheduled(block model.WorkBlock, group model.Group, timelines map[int]*model.PersonTimeline) []model.Person {
	scheduled := []model.Person{}
	blockStart := block.Start()
	blockEnd := block.End()

	for _, person := range group.Members {
		tl := timelines[person.ID]
		if tl == nil {
			continue
		}
		for _, iv := range tl.Intervals {
			if iv.Kind != model.KindShift || !iv.Overlaps(blockStart, blockEnd) {
				continue
			}
			if isNonCoverageTitle(iv.Title) {
				continue
			}
			scheduled = append(scheduled, person)
			break
		}
	}
	return scheduled
}

func isNonCoverageTitle(title string) bool {
	lowered := strings.ToLower(title)
	for _, marker := range nonCoverageMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
