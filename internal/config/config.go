package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// StaffMember maps a staffing-provider user ID to a display name
type StaffMember struct {
	ID   int    `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required"`
}

// StaffGroup is a named set of staff IDs. Groups are evaluated for
// suggestions in the order they appear in the config file.
type StaffGroup struct {
	Name    string `yaml:"name" validate:"required"`
	Members []int  `yaml:"members" validate:"required,min=1"`
}

// BlockEntry is one recurring desk block within a weekday, in fractional
// clock hours (19.5 = 7:30pm)
type BlockEntry struct {
	Start float64 `yaml:"start" validate:"min=0,max=24"`
	End   float64 `yaml:"end" validate:"min=0,max=24"`
}

// BusinessHours is the daily admission window for busy intervals
type BusinessHours struct {
	Open  float64 `yaml:"open" validate:"min=0,max=24"`
	Close float64 `yaml:"close" validate:"min=0,max=24"`
}

// BlackoutRule marks a staff member unavailable on a weekday around a cutoff
// hour, on top of regular eligibility. Exactly one of After/Before is set:
// After blacks out blocks starting at or after the hour, Before blacks out
// blocks starting before it.
type BlackoutRule struct {
	StaffID int      `yaml:"staffID" validate:"required"`
	Weekday string   `yaml:"weekday" validate:"required"`
	After   *float64 `yaml:"after,omitempty" validate:"omitempty,min=0,max=24"`
	Before  *float64 `yaml:"before,omitempty" validate:"omitempty,min=0,max=24"`
}

// Config represents the application configuration
type Config struct {
	LibstafferBaseURL  string `yaml:"libstafferBaseURL" validate:"required,url"`
	LibcalBaseURL      string `yaml:"libcalBaseURL" validate:"required,url"`
	ScheduleIDs        []int  `yaml:"scheduleIDs" validate:"required,min=1"`
	CalendarIDs        []int  `yaml:"calendarIDs" validate:"required,min=1"`
	AppointmentOwnerID int    `yaml:"appointmentOwnerID" validate:"required"`

	Staff        []StaffMember `yaml:"staff" validate:"required,min=1,dive"`
	Groups       []StaffGroup  `yaml:"groups" validate:"required,min=1,dive"`
	PrimaryGroup string        `yaml:"primaryGroup" validate:"required"`

	Timezone      string                  `yaml:"timezone" validate:"required"`
	BusinessHours BusinessHours           `yaml:"businessHours"`
	WeekdayBlocks map[string][]BlockEntry `yaml:"weekdayBlocks" validate:"required"`

	WindowDays     int `yaml:"windowDays,omitempty" validate:"omitempty,min=1"`
	SimulationDays int `yaml:"simulationDays,omitempty" validate:"omitempty,min=1"`
	DailyCap       int `yaml:"dailyCap,omitempty" validate:"omitempty,min=1"`
	WeeklyCap      int `yaml:"weeklyCap,omitempty" validate:"omitempty,min=1"`

	SimulationStaff []int          `yaml:"simulationStaff,omitempty"`
	Blackouts       []BlackoutRule `yaml:"blackouts,omitempty" validate:"dive"`
}

// Defaults applied when the config file leaves a knob unset
const (
	DefaultWindowDays     = 14
	DefaultSimulationDays = 7
	DefaultDailyCap       = 10
	DefaultWeeklyCap      = 20
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday resolves a lowercase weekday name from the config file
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return wd, nil
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from desk_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix.
// For example, env="test" will look for "desk_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.WindowDays == 0 {
		cfg.WindowDays = DefaultWindowDays
	}
	if cfg.SimulationDays == 0 {
		cfg.SimulationDays = DefaultSimulationDays
	}
	if cfg.DailyCap == 0 {
		cfg.DailyCap = DefaultDailyCap
	}
	if cfg.WeeklyCap == 0 {
		cfg.WeeklyCap = DefaultWeeklyCap
	}
	if cfg.BusinessHours.Open == 0 && cfg.BusinessHours.Close == 0 {
		cfg.BusinessHours = BusinessHours{Open: 9, Close: 21}
	}
}

// Validate validates the configuration struct and the cross-field rules the
// struct tags cannot express
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	if cfg.BusinessHours.Open >= cfg.BusinessHours.Close {
		return fmt.Errorf("businessHours: open %.2f must be before close %.2f",
			cfg.BusinessHours.Open, cfg.BusinessHours.Close)
	}

	staffIDs := make(map[int]bool, len(cfg.Staff))
	for _, member := range cfg.Staff {
		if staffIDs[member.ID] {
			return fmt.Errorf("duplicate staff id %d", member.ID)
		}
		staffIDs[member.ID] = true
	}

	primaryFound := false
	for _, group := range cfg.Groups {
		if group.Name == cfg.PrimaryGroup {
			primaryFound = true
		}
		for _, id := range group.Members {
			if !staffIDs[id] {
				return fmt.Errorf("group %q references unknown staff id %d", group.Name, id)
			}
		}
	}
	if !primaryFound {
		return fmt.Errorf("primaryGroup %q does not match any group", cfg.PrimaryGroup)
	}

	for name, entries := range cfg.WeekdayBlocks {
		if _, err := ParseWeekday(name); err != nil {
			return fmt.Errorf("weekdayBlocks: %w", err)
		}
		for i, entry := range entries {
			if entry.Start >= entry.End {
				return fmt.Errorf("weekdayBlocks[%s][%d]: start %.2f must be before end %.2f",
					name, i, entry.Start, entry.End)
			}
		}
	}

	for i, rule := range cfg.Blackouts {
		if _, err := ParseWeekday(rule.Weekday); err != nil {
			return fmt.Errorf("blackouts[%d]: %w", i, err)
		}
		if (rule.After == nil) == (rule.Before == nil) {
			return fmt.Errorf("blackouts[%d]: exactly one of after/before must be set", i)
		}
		if !staffIDs[rule.StaffID] {
			return fmt.Errorf("blackouts[%d]: unknown staff id %d", i, rule.StaffID)
		}
	}

	for _, id := range cfg.SimulationStaff {
		if !staffIDs[id] {
			return fmt.Errorf("simulationStaff references unknown staff id %d", id)
		}
	}

	return nil
}

// Location returns the configured time zone. Call only after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StaffName returns the display name for a staff ID, or a placeholder for
// unknown IDs
func (c *Config) StaffName(id int) string {
	for _, member := range c.Staff {
		if member.ID == id {
			return member.Name
		}
	}
	return fmt.Sprintf("User %d", id)
}

// findConfigFile searches for desk_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "desk_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "desk_config.yaml"
	if env != "" {
		configFileName = "desk_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
