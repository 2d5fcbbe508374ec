package modes

import (
	"fmt"
	"strings"

	"github.com/termlog/termlog/internal/core"
)

// POTAActivationMode scores an activation: the operator is on the air from
// one or more parks, and each park qualifies once it has accumulated
// ParkQualifyThreshold distinct-callsign credits. Points are per-contact;
// there is no multiplier.
type POTAActivationMode struct {
	cfg     Config
	parks   []string // configured park order, drives the breakdown
	entries []Entry
	valid   int                        // contacts counting toward score
	credits map[string]map[string]bool // park -> set of credited callsigns
}

func newPOTAActivationMode(cfg Config) *POTAActivationMode {
	parks := make([]string, 0, len(cfg.ParkRefs))
	credits := make(map[string]map[string]bool, len(cfg.ParkRefs))
	for _, ref := range cfg.ParkRefs {
		ref = strings.ToUpper(strings.TrimSpace(ref))
		if _, ok := credits[ref]; ok {
			continue // configured twice, keep first
		}
		parks = append(parks, ref)
		credits[ref] = make(map[string]bool)
	}
	return &POTAActivationMode{cfg: cfg, parks: parks, credits: credits}
}

func (m *POTAActivationMode) Kind() Kind { return KindPOTA }

func (m *POTAActivationMode) Name() string {
	return "POTA " + strings.Join(m.parks, ", ")
}

// Parks returns the configured park references in order.
func (m *POTAActivationMode) Parks() []string {
	out := make([]string, len(m.parks))
	copy(out, m.parks)
	return out
}

// IsDuplicate reports a repeat only when the callsign has already been
// credited against every park in the activation for the same band+mode.
// During a multi-park activation the same station legitimately appears
// once per park.
func (m *POTAActivationMode) IsDuplicate(d Entry) bool {
	for _, park := range m.parks {
		seen := false
		for _, e := range m.entries {
			if e.Callsign == d.Callsign && e.Band == d.Band && e.Mode == d.Mode &&
				m.creditedPark(e) == park {
				seen = true
				break
			}
		}
		if !seen {
			return false
		}
	}
	return true
}

// creditedPark resolves which of my parks an entry credits. Contacts
// logged without an explicit park credit the primary (first) park.
func (m *POTAActivationMode) creditedPark(e Entry) string {
	if e.MyPark != "" {
		if _, ok := m.credits[e.MyPark]; ok {
			return e.MyPark
		}
	}
	return m.parks[0]
}

// FormatExchange sends the primary park reference and my state, the
// customary POTA exchange.
func (m *POTAActivationMode) FormatExchange() string {
	return strings.TrimSpace(m.parks[0] + " " + m.cfg.MyState)
}

// ExchangePreview matches FormatExchange; the POTA exchange is static.
func (m *POTAActivationMode) ExchangePreview() string { return m.FormatExchange() }

// Record accepts a contact and credits it against the right park. Dupes
// stay in the log but score nothing.
func (m *POTAActivationMode) Record(e Entry) {
	if !m.IsDuplicate(e) {
		m.valid++
	}
	m.entries = append(m.entries, e)
	m.credits[m.creditedPark(e)][e.Callsign] = true
}

func (m *POTAActivationMode) Score() Score {
	s := Score{QSOCount: len(m.entries), Valid: m.valid, TotalScore: m.valid}
	for _, park := range m.parks {
		n := len(m.credits[park])
		s.Parks = append(s.Parks, ParkStatus{
			Ref:       park,
			Credits:   n,
			Qualified: n >= ParkQualifyThreshold,
		})
	}
	return s
}

func (m *POTAActivationMode) StatusText() string {
	s := m.Score()
	qualified := 0
	for _, p := range s.Parks {
		if p.Qualified {
			qualified++
		}
	}
	return fmt.Sprintf("POTA %s | %d QSOs | %d/%d parks qualified",
		strings.Join(m.parks, ","), s.QSOCount, qualified, len(m.parks))
}

func (m *POTAActivationMode) ExportCabrillo() (string, error) {
	return renderCabrillo("POTA "+strings.Join(m.parks, " "), m.cfg.MyCallsign, m.Score(), m.entries), nil
}

func (m *POTAActivationMode) restore(entries []Entry) {
	for _, e := range entries {
		m.Record(e)
	}
}

// -----------------------------------------------------------------------------

// POTAHunterMode scores hunting: one point per distinct park worked,
// regardless of band or mode. Repeat contacts with a park add nothing.
type POTAHunterMode struct {
	cfg    Config
	count  int
	order  []string                   // parks in first-worked order
	worked map[string]map[string]bool // park -> set of callsigns credited
}

func newPOTAHunterMode(cfg Config) *POTAHunterMode {
	return &POTAHunterMode{cfg: cfg, worked: make(map[string]map[string]bool)}
}

func (m *POTAHunterMode) Kind() Kind   { return KindPOTAHunter }
func (m *POTAHunterMode) Name() string { return "POTA Hunter" }

// IsDuplicate reports a repeat when this callsign+park pair has already
// been credited. Hunting credit is per-park, so band and mode are ignored.
func (m *POTAHunterMode) IsDuplicate(d Entry) bool {
	if d.Park == "" {
		return false
	}
	return m.worked[d.Park][d.Callsign]
}

// FormatExchange sends my state and grid; hunters have no serial or park
// of their own to send.
func (m *POTAHunterMode) FormatExchange() string {
	return strings.TrimSpace(m.cfg.MyState + " " + m.cfg.MyGrid)
}

func (m *POTAHunterMode) ExchangePreview() string { return m.FormatExchange() }

func (m *POTAHunterMode) Record(e Entry) {
	m.count++
	if e.Park == "" {
		return
	}
	if _, ok := m.worked[e.Park]; !ok {
		m.worked[e.Park] = make(map[string]bool)
		m.order = append(m.order, e.Park)
	}
	m.worked[e.Park][e.Callsign] = true
}

func (m *POTAHunterMode) Score() Score {
	s := Score{QSOCount: m.count, TotalScore: len(m.worked)}
	for _, park := range m.order {
		credits := len(m.worked[park])
		s.Valid += credits
		s.Parks = append(s.Parks, ParkStatus{Ref: park, Credits: credits})
	}
	return s
}

func (m *POTAHunterMode) StatusText() string {
	return fmt.Sprintf("POTA Hunter | %d QSOs | %d parks worked", m.count, len(m.worked))
}

// ExportCabrillo is unsupported: the POTA program takes hunter credit from
// the activators' uploaded logs, there is nothing to submit.
func (m *POTAHunterMode) ExportCabrillo() (string, error) {
	return "", fmt.Errorf("pota hunter: %w", core.ErrUnsupportedExport)
}

func (m *POTAHunterMode) restore(entries []Entry) {
	for _, e := range entries {
		m.Record(e)
	}
}
