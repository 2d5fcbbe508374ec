package config

import (
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DataDir == "" {
		t.Error("DataDir should have a default")
	}
	if cfg.DBPath == "" {
		t.Error("DBPath should have a default")
	}
	if cfg.Lookup.Service != LookupNone {
		t.Errorf("Lookup.Service = %v, want none", cfg.Lookup.Service)
	}
	if !cfg.Lookup.AutoLookup {
		t.Error("AutoLookup should default to true")
	}
	if cfg.Defaults.Mode != "SSB" || cfg.Defaults.RST != "59" {
		t.Errorf("entry defaults = %+v, want SSB/59", cfg.Defaults)
	}
	if cfg.Spots.POTAURL == "" {
		t.Error("POTA spot URL should have a default")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Defaults.Frequency != 14.250 {
		t.Errorf("Frequency = %v, want default 14.250", cfg.Defaults.Frequency)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Station.Callsign = "W1AW"
	cfg.Station.Grid = "FN31"
	cfg.Lookup.Service = LookupHamQTH
	cfg.Lookup.Username = "w1aw"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Station.Callsign != "W1AW" {
		t.Errorf("Callsign = %q, want W1AW", loaded.Station.Callsign)
	}
	if loaded.Lookup.Service != LookupHamQTH {
		t.Errorf("Lookup.Service = %v, want hamqth", loaded.Lookup.Service)
	}
}

func TestLoad_EnvOverridesCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.Lookup.Username = "from-file"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	t.Setenv("TERMLOG_LOOKUP_USERNAME", "from-env")
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Lookup.Username != "from-env" {
		t.Errorf("Username = %q, want env override", loaded.Lookup.Username)
	}
}

func TestLoad_EnvCredentialsApplyWithoutFile(t *testing.T) {
	t.Setenv("TERMLOG_LOOKUP_USERNAME", "w1aw")
	t.Setenv("TERMLOG_LOOKUP_PASSWORD", "hunter2")

	loaded, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Lookup.Username != "w1aw" || loaded.Lookup.Password != "hunter2" {
		t.Errorf("credentials = %q/%q, want env values on a fresh install",
			loaded.Lookup.Username, loaded.Lookup.Password)
	}
}
