// Package spots fetches activity spots from the POTA network and from
// DX cluster nodes, normalized into a common Spot type.
package spots

import (
	"strings"
	"time"

	"github.com/termlog/termlog/internal/core"
)

// Spot is a single report of a station heard on the air.
type Spot struct {
	Callsign  string    // station being spotted
	Frequency float64   // MHz
	Mode      string    // reported mode, may be empty for cluster spots
	Spotter   string    // who reported it
	Time      time.Time // UTC
	Info      string    // park reference for POTA, free-form comment for DX
	Source    string    // "pota" or "cluster"
}

// Band derives the amateur band from the spot frequency.
func (s Spot) Band() core.Band {
	return core.FrequencyToBand(s.Frequency)
}

// TimeString formats the spot time as HH:MM UTC.
func (s Spot) TimeString() string {
	return s.Time.UTC().Format("15:04")
}

// Filter narrows a spot list by band and/or mode. Zero values match
// everything.
type Filter struct {
	Band core.Band
	Mode string
}

// Match reports whether the spot passes the filter.
func (f Filter) Match(s Spot) bool {
	if f.Band != "" && s.Band() != f.Band {
		return false
	}
	if f.Mode != "" && !strings.EqualFold(s.Mode, f.Mode) {
		return false
	}
	return true
}

// Apply returns the spots that pass the filter, preserving order.
func (f Filter) Apply(in []Spot) []Spot {
	if f.Band == "" && f.Mode == "" {
		return in
	}
	out := make([]Spot, 0, len(in))
	for _, s := range in {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}
