package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/weekend-shifts/pkg/core/catalog"
)

const (
	// DatabaseURLEnv overrides databaseURL when set
	DatabaseURLEnv = "WEEKEND_SHIFTS_DATABASE_URL"

	// DateLayout is the layout of startDate
	DateLayout = "2006-01-02"

	defaultTopCount              = 12
	defaultBottomCount           = 6
	defaultCapacity              = 1
	defaultServerAddress         = ":8080"
	defaultDeadlineExtensionDays = 7
	defaultTimezone              = "America/New_York"
)

// CapacityOverride changes the capacity of every shift whose date matches the rule
type CapacityOverride struct {
	RRule    string `yaml:"rrule" validate:"required"`
	Capacity int    `yaml:"capacity" validate:"required,min=1"`
}

// Config represents the application configuration
type Config struct {
	StartDate             string             `yaml:"startDate" validate:"required,datetime=2006-01-02"`
	Weekends              int                `yaml:"weekends" validate:"required,min=1"`
	DefaultCapacity       int                `yaml:"defaultCapacity,omitempty" validate:"min=1"`
	CapacityOverrides     []CapacityOverride `yaml:"capacityOverrides,omitempty" validate:"dive"`
	TopCount              int                `yaml:"topCount,omitempty" validate:"min=1"`
	BottomCount           int                `yaml:"bottomCount,omitempty" validate:"min=1"`
	Seed                  *int64             `yaml:"seed,omitempty"`
	DatabaseURL           string             `yaml:"databaseURL" validate:"required"`
	ServerAddress         string             `yaml:"serverAddress,omitempty" validate:"required"`
	DeadlineExtensionDays int                `yaml:"deadlineExtensionDays,omitempty" validate:"min=1"`
	Timezone              string             `yaml:"timezone,omitempty" validate:"required,timezone"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration for an environment from weekend_shifts_config.<env>.yaml.
// It looks for the config file in the current directory first, then in the user's home directory.
// A .env file in the current directory is loaded first so it can supply overrides.
func Load(env string) (*Config, error) {
	_ = godotenv.Load(".env")

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

	if url := os.Getenv(DatabaseURLEnv); url != "" {
		cfg.DatabaseURL = url
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DefaultCapacity == 0 {
		cfg.DefaultCapacity = defaultCapacity
	}
	if cfg.TopCount == 0 {
		cfg.TopCount = defaultTopCount
	}
	if cfg.BottomCount == 0 {
		cfg.BottomCount = defaultBottomCount
	}
	if cfg.ServerAddress == "" {
		cfg.ServerAddress = defaultServerAddress
	}
	if cfg.DeadlineExtensionDays == 0 {
		cfg.DeadlineExtensionDays = defaultDeadlineExtensionDays
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, override := range cfg.CapacityOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in capacityOverrides[%d]: %w", i, err)
		}
	}

	return nil
}

// Start returns the first Saturday of the round
func (c *Config) Start() (time.Time, error) {
	start, err := time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid startDate: %w", err)
	}
	return start, nil
}

// Location returns the timezone deadlines are displayed in
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	return loc, nil
}

// Catalog builds the shift catalog for the configured round
func (c *Config) Catalog() (*catalog.Catalog, error) {
	start, err := c.Start()
	if err != nil {
		return nil, err
	}

	overrides := make([]catalog.CapacityOverride, 0, len(c.CapacityOverrides))
	for i, o := range c.CapacityOverrides {
		override, err := catalog.RRuleOverride(o.RRule, o.Capacity, start, c.Weekends)
		if err != nil {
			return nil, fmt.Errorf("capacityOverrides[%d]: %w", i, err)
		}
		overrides = append(overrides, override)
	}

	return catalog.Build(catalog.Options{
		Start:           start,
		Weekends:        c.Weekends,
		DefaultCapacity: c.DefaultCapacity,
		Overrides:       overrides,
	}), nil
}

// findConfigFile searches for weekend_shifts_config.<env>.yaml in current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := fmt.Sprintf("weekend_shifts_config.%s.yaml", env)

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

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
