package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
libstafferBaseURL: https://example.libstaffer.com/api/1.0
libcalBaseURL: https://example.libcal.com/api/1.1
scheduleIDs: [8763, 8781]
calendarIDs: [7925]
appointmentOwnerID: 86771
staff:
  - id: 77608
    name: Lisa Allen
  - id: 49960
    name: Emily Dowie
  - id: 45015
    name: Gail Fell
groups:
  - name: Adult Services
    members: [77608, 49960]
  - name: Youth Services
    members: [45015]
primaryGroup: Adult Services
timezone: America/New_York
weekdayBlocks:
  monday:
    - start: 9
      end: 11
    - start: 19.5
      end: 21
  wednesday:
    - start: 13
      end: 15
simulationStaff: [77608, 49960, 45015]
blackouts:
  - staffID: 49960
    weekday: friday
    after: 17
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "desk_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromPath_Valid(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, []int{8763, 8781}, cfg.ScheduleIDs)
	assert.Equal(t, "Adult Services", cfg.PrimaryGroup)
	assert.Len(t, cfg.Staff, 3)
	assert.Equal(t, "Lisa Allen", cfg.StaffName(77608))
	assert.Equal(t, "User 99999", cfg.StaffName(99999))
	assert.Equal(t, "America/New_York", cfg.Location().String())
}

func TestLoadFromPath_Defaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, DefaultWindowDays, cfg.WindowDays)
	assert.Equal(t, DefaultSimulationDays, cfg.SimulationDays)
	assert.Equal(t, DefaultDailyCap, cfg.DailyCap)
	assert.Equal(t, DefaultWeeklyCap, cfg.WeeklyCap)
	assert.Equal(t, BusinessHours{Open: 9, Close: 21}, cfg.BusinessHours)
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"bad timezone", func(cfg *Config) { cfg.Timezone = "Mars/Olympus" }},
		{"inverted business hours", func(cfg *Config) { cfg.BusinessHours = BusinessHours{Open: 21, Close: 9} }},
		{"unknown group member", func(cfg *Config) { cfg.Groups[0].Members = []int{12345} }},
		{"unknown primary group", func(cfg *Config) { cfg.PrimaryGroup = "Archives" }},
		{"bad weekday name", func(cfg *Config) {
			cfg.WeekdayBlocks["funday"] = []BlockEntry{{Start: 9, End: 11}}
		}},
		{"inverted block entry", func(cfg *Config) {
			cfg.WeekdayBlocks["monday"] = []BlockEntry{{Start: 11, End: 9}}
		}},
		{"duplicate staff id", func(cfg *Config) {
			cfg.Staff = append(cfg.Staff, StaffMember{ID: 77608, Name: "Duplicate"})
		}},
		{"blackout missing cutoff", func(cfg *Config) {
			cfg.Blackouts = []BlackoutRule{{StaffID: 77608, Weekday: "friday"}}
		}},
		{"blackout both cutoffs", func(cfg *Config) {
			after, before := 17.0, 9.0
			cfg.Blackouts = []BlackoutRule{{StaffID: 77608, Weekday: "friday", After: &after, Before: &before}}
		}},
		{"blackout unknown staff", func(cfg *Config) {
			after := 17.0
			cfg.Blackouts = []BlackoutRule{{StaffID: 555, Weekday: "friday", After: &after}}
		}},
		{"simulation staff unknown id", func(cfg *Config) { cfg.SimulationStaff = []int{555} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadFromPath(writeConfig(t, validConfigYAML))
			require.NoError(t, err)

			tc.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestParseWeekday(t *testing.T) {
	wd, err := ParseWeekday("monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)

	_, err = ParseWeekday("Monday")
	assert.Error(t, err)
}

func TestLoadCredentials_FromEnvironment(t *testing.T) {
	t.Setenv("LIBSTAFFER_CLIENT_ID", "ls-id")
	t.Setenv("LIBSTAFFER_CLIENT_SECRET", "ls-secret")
	t.Setenv("LIBCAL_CLIENT_ID", "lc-id")
	t.Setenv("LIBCAL_CLIENT_SECRET", "lc-secret")

	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "ls-id", creds.LibstafferClientID)
	assert.Equal(t, "lc-secret", creds.LibcalClientSecret)
}

func TestLoadCredentials_MissingVars(t *testing.T) {
	t.Setenv("LIBSTAFFER_CLIENT_ID", "")
	t.Setenv("LIBSTAFFER_CLIENT_SECRET", "")
	t.Setenv("LIBCAL_CLIENT_ID", "")
	t.Setenv("LIBCAL_CLIENT_SECRET", "")

	_, err := LoadCredentials()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LIBSTAFFER_CLIENT_ID")
}
