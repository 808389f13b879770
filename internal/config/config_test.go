package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rlt-lab/gigsly/internal/config"
)

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OverdueDays != config.DefaultOverdueDays {
		t.Fatalf("overdue days = %d, want %d", cfg.OverdueDays, config.DefaultOverdueDays)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("config perms = %o, want 600", info.Mode().Perm())
	}
}

func TestLoad_NormalizesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte("overdue_days: 45\nhome_address: \"123 Main St\"\n"), 0o600)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OverdueDays != 45 {
		t.Fatalf("overdue days = %d, want 45", cfg.OverdueDays)
	}
	if cfg.HomeAddress != "123 Main St" {
		t.Fatalf("home address = %q", cfg.HomeAddress)
	}
	if cfg.ContactReminderDays != config.DefaultContactReminderDays {
		t.Fatalf("contact reminder days = %d, want default %d", cfg.ContactReminderDays, config.DefaultContactReminderDays)
	}
	if cfg.IRSMileageRates == nil {
		t.Fatalf("mileage rates not defaulted")
	}
}

func TestMileageRate(t *testing.T) {
	cfg := config.DefaultConfig()
	if got := cfg.MileageRate(2024); got != 0.67 {
		t.Fatalf("2024 rate = %v, want 0.67", got)
	}
	if got := cfg.MileageRate(1999); got != 0.70 {
		t.Fatalf("fallback rate = %v, want 0.70", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := config.DefaultConfig()
	cfg.OverdueDays = 21
	cfg.HomeAddress = "42 Elm"
	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.OverdueDays != 21 || got.HomeAddress != "42 Elm" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
