// Package core defines the fundamental types for TermLog.
// Every other package speaks in these types.
package core

import (
	"fmt"
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// EMISSION MODE - How the signal is modulated
// -----------------------------------------------------------------------------

// EmissionMode is the transmission mode of a QSO (SSB, CW, FT8, ...).
type EmissionMode string

const (
	ModeSSB     EmissionMode = "SSB"
	ModeCW      EmissionMode = "CW"
	ModeFM      EmissionMode = "FM"
	ModeAM      EmissionMode = "AM"
	ModeRTTY    EmissionMode = "RTTY"
	ModePSK31   EmissionMode = "PSK31"
	ModeFT8     EmissionMode = "FT8"
	ModeFT4     EmissionMode = "FT4"
	ModeJS8     EmissionMode = "JS8"
	ModeSSTV    EmissionMode = "SSTV"
	ModeDigital EmissionMode = "DIGITAL"
)

// EmissionModes lists every mode TermLog accepts, in menu order.
var EmissionModes = []EmissionMode{
	ModeSSB, ModeCW, ModeFM, ModeAM, ModeRTTY, ModePSK31,
	ModeFT8, ModeFT4, ModeJS8, ModeSSTV, ModeDigital,
}

// CabrilloCode returns the two-letter mode code used in Cabrillo QSO lines.
func (m EmissionMode) CabrilloCode() string {
	switch m {
	case ModeSSB, ModeFM, ModeAM:
		return "PH"
	case ModeCW:
		return "CW"
	case ModeRTTY:
		return "RY"
	default:
		return "DG"
	}
}

// IsPhone reports whether the mode is a voice mode.
func (m EmissionMode) IsPhone() bool {
	return m == ModeSSB || m == ModeFM || m == ModeAM
}

// ParseEmissionMode matches a user-supplied string against the known
// modes, case-insensitively. Returns ErrInvalidInput for anything else.
func ParseEmissionMode(s string) (EmissionMode, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, m := range EmissionModes {
		if string(m) == want {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, s)
}

// -----------------------------------------------------------------------------
// BAND - Amateur radio band derived from frequency
// -----------------------------------------------------------------------------

// Band is an amateur radio band ("20m", "40m", ...).
type Band string

const (
	Band160m Band = "160m"
	Band80m  Band = "80m"
	Band60m  Band = "60m"
	Band40m  Band = "40m"
	Band30m  Band = "30m"
	Band20m  Band = "20m"
	Band17m  Band = "17m"
	Band15m  Band = "15m"
	Band12m  Band = "12m"
	Band10m  Band = "10m"
	Band6m   Band = "6m"
	Band2m   Band = "2m"
	Band70cm Band = "70cm"
)

// bandEdge is an inclusive frequency range in MHz.
type bandEdge struct {
	Band Band
	Low  float64
	High float64
}

// bandPlan maps bands to their frequency ranges in MHz. Ordered low to high
// so FrequencyToBand scans are deterministic.
var bandPlan = []bandEdge{
	{Band160m, 1.8, 2.0},
	{Band80m, 3.5, 4.0},
	{Band60m, 5.3, 5.4},
	{Band40m, 7.0, 7.3},
	{Band30m, 10.1, 10.15},
	{Band20m, 14.0, 14.35},
	{Band17m, 18.068, 18.168},
	{Band15m, 21.0, 21.45},
	{Band12m, 24.89, 24.99},
	{Band10m, 28.0, 29.7},
	{Band6m, 50.0, 54.0},
	{Band2m, 144.0, 148.0},
	{Band70cm, 420.0, 450.0},
}

// FrequencyToBand converts a frequency in MHz to its band.
// Returns "" if the frequency falls outside every amateur allocation.
func FrequencyToBand(freqMHz float64) Band {
	for _, e := range bandPlan {
		if freqMHz >= e.Low && freqMHz <= e.High {
			return e.Band
		}
	}
	return ""
}

// -----------------------------------------------------------------------------
// QSO - A logged contact
// -----------------------------------------------------------------------------

// QSO is a single logged contact. The scoring engine never owns these;
// it works on snapshots handed over by the host after persistence.
type QSO struct {
	ID        int64        `json:"id"`
	Callsign  string       `json:"callsign"`
	Frequency float64      `json:"frequency"` // MHz
	Mode      EmissionMode `json:"mode"`
	RSTSent   string       `json:"rst_sent"`
	RSTRcvd   string       `json:"rst_rcvd"`
	Time      time.Time    `json:"time"` // always UTC
	Notes     string       `json:"notes"`

	// Operating-mode session this QSO was logged under, if any
	SessionID string `json:"session_id,omitempty"`

	// Exchange strings stamped by the scoring engine
	ExchangeSent string `json:"exchange_sent,omitempty"`
	ExchangeRcvd string `json:"exchange_rcvd,omitempty"`

	// Contacted station info
	Name       string `json:"name,omitempty"`
	QTH        string `json:"qth,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	GridSquare string `json:"gridsquare,omitempty"`
	CQZone     int    `json:"cq_zone,omitempty"`
	ITUZone    int    `json:"itu_zone,omitempty"`

	// Activity references
	POTARef string `json:"pota_ref,omitempty"`
	SOTARef string `json:"sota_ref,omitempty"`

	// Station metadata
	TxPower  float64 `json:"tx_pwr,omitempty"`
	Operator string  `json:"operator,omitempty"`
	MyGrid   string  `json:"my_gridsquare,omitempty"`
	MyPOTA   string  `json:"my_pota_ref,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Band returns the band for this QSO based on its frequency.
func (q *QSO) Band() Band {
	return FrequencyToBand(q.Frequency)
}

// TimeString returns HH:MM in UTC.
func (q *QSO) TimeString() string {
	return q.Time.UTC().Format("15:04")
}

// DateString returns YYYY-MM-DD in UTC.
func (q *QSO) DateString() string {
	return q.Time.UTC().Format("2006-01-02")
}

// -----------------------------------------------------------------------------
// LOOKUP RESULT - What a callsign lookup service returns
// -----------------------------------------------------------------------------

// LookupResult is the enrichment data returned by QRZ/HamQTH.
type LookupResult struct {
	Callsign   string  `json:"callsign"`
	Name       string  `json:"name,omitempty"`
	Address    string  `json:"address,omitempty"`
	City       string  `json:"city,omitempty"`
	State      string  `json:"state,omitempty"`
	Country    string  `json:"country,omitempty"`
	GridSquare string  `json:"grid_square,omitempty"`
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
	QSLVia     string  `json:"qsl_via,omitempty"`
	Email      string  `json:"email,omitempty"`
}

// Location builds a "City, State, Country" display string.
func (r *LookupResult) Location() string {
	var parts []string
	for _, p := range []string{r.City, r.State, r.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
