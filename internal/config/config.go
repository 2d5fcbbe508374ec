// Package config handles TermLog configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LookupService selects the callsign lookup provider.
type LookupService string

const (
	LookupNone   LookupService = "none"
	LookupQRZ    LookupService = "qrz"
	LookupHamQTH LookupService = "hamqth"
)

// Config holds all configuration
type Config struct {
	// Paths
	DataDir string `json:"data_dir"`
	DBPath  string `json:"db_path"`

	// Station info
	Station StationConfig `json:"station"`

	// Callsign lookup
	Lookup LookupConfig `json:"lookup"`

	// Spot feeds
	Spots SpotsConfig `json:"spots"`

	// Entry form defaults
	Defaults EntryDefaults `json:"defaults"`
}

// StationConfig describes the operator's own station.
type StationConfig struct {
	Callsign  string  `json:"callsign"`
	Name      string  `json:"name"`
	Grid      string  `json:"grid"`
	QTH       string  `json:"qth"`
	State     string  `json:"state"`
	Country   string  `json:"country"`
	CQZone    string  `json:"cq_zone"`
	ITUZone   string  `json:"itu_zone"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// LookupConfig selects and authenticates a callsign lookup service.
type LookupConfig struct {
	Service    LookupService `json:"service"`
	Username   string        `json:"username"`
	Password   string        `json:"password"`
	AutoLookup bool          `json:"auto_lookup"`
}

// SpotsConfig points at spot sources.
type SpotsConfig struct {
	POTAURL     string `json:"pota_url"`
	ClusterHost string `json:"cluster_host"`
	ClusterPort int    `json:"cluster_port"`
}

// EntryDefaults pre-fills the logging form.
type EntryDefaults struct {
	Mode      string  `json:"mode"`
	RST       string  `json:"rst"`
	Frequency float64 `json:"frequency"`
}

// Default returns default configuration
func Default() *Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".termlog")

	return &Config{
		DataDir: dataDir,
		DBPath:  filepath.Join(dataDir, "termlog.db"),
		Lookup: LookupConfig{
			Service:    LookupNone,
			AutoLookup: true,
		},
		Spots: SpotsConfig{
			POTAURL:     "https://api.pota.app/spot/activator",
			ClusterHost: "dxc.nc7j.com",
			ClusterPort: 7373,
		},
		Defaults: EntryDefaults{
			Mode:      "SSB",
			RST:       "59",
			Frequency: 14.250,
		},
	}
}

// Load loads config from file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.json")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults; env overrides below still apply
	default:
		return nil, err
	}

	// Lookup credentials can come from the environment instead of disk
	if u := os.Getenv("TERMLOG_LOOKUP_USERNAME"); u != "" {
		cfg.Lookup.Username = u
	}
	if p := os.Getenv("TERMLOG_LOOKUP_PASSWORD"); p != "" {
		cfg.Lookup.Password = p
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "termlog.db")
	}

	return cfg, nil
}

// Save saves config to file
func (c *Config) Save(path string) error {
	if path == "" {
		path = filepath.Join(c.DataDir, "config.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
