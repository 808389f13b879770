package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults for user-tunable settings.
const (
	DefaultOverdueDays            = 30
	DefaultBookingWindowAlertDays = 7
	DefaultLowShowCount           = 2
	DefaultContactReminderDays    = 60
	DefaultAwaitingResponseDays   = 14
)

// Config is the top-level application configuration, stored as YAML in
// the Gigsly data directory.
type Config struct {
	// OverdueDays is how many days after a show a pending payment is
	// flagged overdue.
	OverdueDays int `yaml:"overdue_days"`

	// BookingWindowAlertDays alerts when a booking window opens within
	// this many days.
	BookingWindowAlertDays int `yaml:"booking_window_alert_days"`

	// LowShowCount is the "few upcoming shows" threshold.
	LowShowCount int `yaml:"low_show_count"`

	// ContactReminderDays is how long after the last contact a venue is
	// considered due for outreach.
	ContactReminderDays int `yaml:"contact_reminder_days"`

	// AwaitingResponseDays suppresses reminders while a recent contact
	// is still awaiting a response.
	AwaitingResponseDays int `yaml:"awaiting_response_days"`

	// HomeAddress is used for mileage context in tax reports.
	HomeAddress string `yaml:"home_address"`

	// IRSMileageRates maps year to the deductible rate per mile.
	IRSMileageRates map[string]float64 `yaml:"irs_mileage_rates"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		OverdueDays:            DefaultOverdueDays,
		BookingWindowAlertDays: DefaultBookingWindowAlertDays,
		LowShowCount:           DefaultLowShowCount,
		ContactReminderDays:    DefaultContactReminderDays,
		AwaitingResponseDays:   DefaultAwaitingResponseDays,
		IRSMileageRates: map[string]float64{
			"2024": 0.67,
			"2025": 0.70,
			"2026": 0.70,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config path: %w", err)
	}
	return filepath.Join(home, ".gigsly", "config.yaml"), nil
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.OverdueDays <= 0 {
		c.OverdueDays = DefaultOverdueDays
	}
	if c.BookingWindowAlertDays <= 0 {
		c.BookingWindowAlertDays = DefaultBookingWindowAlertDays
	}
	if c.LowShowCount <= 0 {
		c.LowShowCount = DefaultLowShowCount
	}
	if c.ContactReminderDays <= 0 {
		c.ContactReminderDays = DefaultContactReminderDays
	}
	if c.AwaitingResponseDays <= 0 {
		c.AwaitingResponseDays = DefaultAwaitingResponseDays
	}
	if c.IRSMileageRates == nil {
		c.IRSMileageRates = DefaultConfig().IRSMileageRates
	}
}

// MileageRate returns the IRS mileage rate for a year. Years without a
// configured rate get the 2025 default of $0.70/mile.
func (c *Config) MileageRate(year int) float64 {
	if rate, ok := c.IRSMileageRates[strconv.Itoa(year)]; ok {
		return rate
	}
	return 0.70
}

// Load loads configuration from the given YAML path. A missing file is
// first-run: a default config is written and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically with 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".gigsly-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	return nil
}
