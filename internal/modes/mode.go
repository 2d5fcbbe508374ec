package modes

import (
	"strconv"
	"strings"
	"time"

	"github.com/termlog/termlog/internal/core"
)

// Entry is the lightweight reference the engine keeps for each contact
// logged under a mode. The full QSO record is owned by the host's
// persistence layer; the engine never reads it back.
type Entry struct {
	Callsign  string
	Band      core.Band
	Mode      core.EmissionMode
	Frequency float64 // MHz
	Time      time.Time

	ExchangeSent string
	ExchangeRcvd string

	Zone    string // contest multiplier key (CQ zone, received exchange)
	Section string // field day section
	Grid    string
	Park    string // the other station's park (hunter credit)
	MyPark  string // which of my parks this contact credits (activator)
}

// EntryFromQSO extracts the scoring-relevant fields from a persisted QSO.
func EntryFromQSO(q *core.QSO) Entry {
	zone := ""
	if q.CQZone != 0 {
		zone = strconv.Itoa(q.CQZone)
	}
	return Entry{
		Callsign:     strings.ToUpper(strings.TrimSpace(q.Callsign)),
		Band:         q.Band(),
		Mode:         q.Mode,
		Frequency:    q.Frequency,
		Time:         q.Time,
		ExchangeSent: q.ExchangeSent,
		ExchangeRcvd: q.ExchangeRcvd,
		Zone:         zone,
		Section:      q.State,
		Grid:         q.GridSquare,
		Park:         strings.ToUpper(strings.TrimSpace(q.POTARef)),
		MyPark:       strings.ToUpper(strings.TrimSpace(q.MyPOTA)),
	}
}

// Mode is one active operating-mode variant. The Controller selects the
// concrete type from the Config's Kind tag at Start; "General" logging is
// represented by the absence of a Mode, never by an implementation.
//
// All methods are synchronous and none perform I/O. IsDuplicate and Score
// are pure reads; FormatExchange and Record are the only mutations and are
// called exactly once per logged contact, in that order.
type Mode interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Name returns a short human-readable name for notifications.
	Name() string

	// IsDuplicate reports whether the draft would be a repeat under this
	// mode's rules. Informational: the host warns, it never blocks.
	IsDuplicate(d Entry) bool

	// ExchangePreview returns what the next contact would send without
	// touching any counters. Safe to call any number of times.
	ExchangePreview() string

	// FormatExchange returns the outgoing exchange to stamp on the next
	// contact. For contests this advances the serial counter, so it must
	// be called once per contact that is actually logged.
	FormatExchange() string

	// Record accepts a persisted contact into the mode's state.
	Record(e Entry)

	// Score computes the running score. Pure; callable any number of times.
	Score() Score

	// StatusText returns a one-line summary for the status bar.
	StatusText() string

	// ExportCabrillo renders the mode's log in Cabrillo form, or
	// core.ErrUnsupportedExport when the variant has no export format.
	ExportCabrillo() (string, error)
}

// newMode builds the concrete mode for a validated config.
func newMode(cfg Config) Mode {
	switch cfg.Kind {
	case KindContest:
		return newContestMode(cfg)
	case KindPOTA:
		return newPOTAActivationMode(cfg)
	case KindPOTAHunter:
		return newPOTAHunterMode(cfg)
	case KindFieldDay:
		return newFieldDayMode(cfg)
	default:
		return nil
	}
}
