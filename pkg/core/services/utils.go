package services

import (
	"time"

	"github.com/greenburghlibrary/deskcheck/internal/config"
	"github.com/greenburghlibrary/deskcheck/pkg/core/blocks"
	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
	"github.com/greenburghlibrary/deskcheck/pkg/core/scheduler"
	"github.com/greenburghlibrary/deskcheck/pkg/core/timeline"
)

// dayStart normalizes an instant to midnight of its calendar day in loc
func dayStart(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// staffRoster converts the configured staff list to persons
func staffRoster(cfg *config.Config) []model.Person {
	roster := make([]model.Person, 0, len(cfg.Staff))
	for _, member := range cfg.Staff {
		roster = append(roster, model.Person{ID: member.ID, Name: member.Name})
	}
	return roster
}

// groupsFromConfig resolves group member IDs to persons, preserving the
// config file's priority order
func groupsFromConfig(cfg *config.Config) []model.Group {
	groups := make([]model.Group, 0, len(cfg.Groups))
	for _, group := range cfg.Groups {
		members := make([]model.Person, 0, len(group.Members))
		for _, id := range group.Members {
			members = append(members, model.Person{ID: id, Name: cfg.StaffName(id)})
		}
		groups = append(groups, model.Group{Name: group.Name, Members: members})
	}
	return groups
}

// simulationStaff resolves the flat simulation staff list; when the config
// leaves it empty the whole roster is used
func simulationStaff(cfg *config.Config) []model.Person {
	if len(cfg.SimulationStaff) == 0 {
		return staffRoster(cfg)
	}
	staff := make([]model.Person, 0, len(cfg.SimulationStaff))
	for _, id := range cfg.SimulationStaff {
		staff = append(staff, model.Person{ID: id, Name: cfg.StaffName(id)})
	}
	return staff
}

// weekdayTemplate converts the configured weekday blocks. Config validation
// guarantees the weekday names parse.
func weekdayTemplate(cfg *config.Config) blocks.WeekdayTemplate {
	tmpl := blocks.WeekdayTemplate{}
	for name, entries := range cfg.WeekdayBlocks {
		wd, err := config.ParseWeekday(name)
		if err != nil {
			continue
		}
		converted := make([]blocks.TemplateEntry, 0, len(entries))
		for _, entry := range entries {
			converted = append(converted, blocks.TemplateEntry{StartHour: entry.Start, EndHour: entry.End})
		}
		tmpl[wd] = converted
	}
	return tmpl
}

// caps builds the evaluator caps from config
func caps(cfg *config.Config) scheduler.Caps {
	return scheduler.Caps{Daily: cfg.DailyCap, Weekly: cfg.WeeklyCap}
}

// businessHours builds the admission window from config
func businessHours(cfg *config.Config) timeline.BusinessHours {
	return timeline.BusinessHours{Open: cfg.BusinessHours.Open, Close: cfg.BusinessHours.Close}
}

// blackedOut reports whether a configured blackout rule excludes the person
// from the block. After-rules black out blocks starting at or after the
// cutoff hour on that weekday; before-rules black out blocks starting
// before it.
func blackedOut(rules []config.BlackoutRule, person model.Person, block model.WorkBlock) bool {
	for _, rule := range rules {
		if rule.StaffID != person.ID {
			continue
		}
		wd, err := config.ParseWeekday(rule.Weekday)
		if err != nil || wd != block.Weekday {
			continue
		}
		if rule.After != nil && block.StartHour >= *rule.After {
			return true
		}
		if rule.Before != nil && block.StartHour < *rule.Before {
			return true
		}
	}
	return false
}
