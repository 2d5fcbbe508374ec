package modes

import (
	"fmt"
	"strings"
)

// PowerClassMultipliers maps Field Day power categories to their score
// multiplier per the ARRL rules. The table is a fixed event constant,
// keyed by category rather than derived from logged contacts.
var PowerClassMultipliers = map[string]int{
	"QRP":  5, // 5W or less, battery/solar
	"LOW":  2, // 150W or less
	"HIGH": 1, // more than 150W
}

// DefaultPowerCategory applies when a Field Day config leaves the power
// category empty.
const DefaultPowerCategory = "LOW"

// FieldDayMode scores ARRL Field Day style operation: one exchange per
// station for the whole event (dupes ignore band and mode), with the
// contact count multiplied by the station's power-class multiplier.
type FieldDayMode struct {
	cfg      Config
	multiple int
	entries  []Entry
	valid    int             // contacts counting toward score (dupes excluded)
	sections map[string]bool // distinct ARRL sections worked, append-only
	seen     map[string]bool // callsigns already worked
}

func newFieldDayMode(cfg Config) *FieldDayMode {
	cat := strings.ToUpper(cfg.PowerCat)
	if cat == "" {
		cat = DefaultPowerCategory
	}
	return &FieldDayMode{
		cfg:      cfg,
		multiple: PowerClassMultipliers[cat],
		entries:  nil,
		sections: make(map[string]bool),
		seen:     make(map[string]bool),
	}
}

func (m *FieldDayMode) Kind() Kind   { return KindFieldDay }
func (m *FieldDayMode) Name() string { return "Field Day " + m.cfg.MyClass + " " + m.cfg.MySection }

// IsDuplicate reports a repeat for any previously worked callsign,
// regardless of band or mode: Field Day takes one exchange per station.
func (m *FieldDayMode) IsDuplicate(d Entry) bool {
	return m.seen[d.Callsign]
}

// FormatExchange sends the configured class and section.
func (m *FieldDayMode) FormatExchange() string {
	return m.cfg.MyClass + " " + m.cfg.MySection
}

func (m *FieldDayMode) ExchangePreview() string { return m.FormatExchange() }

// Record accepts a contact. A station worked before stays in the log but
// scores nothing the second time.
func (m *FieldDayMode) Record(e Entry) {
	if !m.seen[e.Callsign] {
		m.valid++
		if sec := fieldDaySection(e); sec != "" {
			m.sections[sec] = true
		}
	}
	m.entries = append(m.entries, e)
	m.seen[e.Callsign] = true
}

// fieldDaySection pulls the worked station's section out of the entry:
// the explicit section field when present, otherwise the last token of
// the received exchange ("3A CO" -> "CO").
func fieldDaySection(e Entry) string {
	if e.Section != "" {
		return strings.ToUpper(e.Section)
	}
	fields := strings.Fields(e.ExchangeRcvd)
	if len(fields) >= 2 {
		return strings.ToUpper(fields[len(fields)-1])
	}
	return ""
}

func (m *FieldDayMode) Score() Score {
	return Score{
		QSOCount:        len(m.entries),
		Valid:           m.valid,
		MultiplierCount: len(m.sections),
		TotalScore:      m.valid * m.multiple,
		ClassMultiplier: m.multiple,
	}
}

func (m *FieldDayMode) StatusText() string {
	s := m.Score()
	return fmt.Sprintf("Field Day %s %s | %d QSOs | %d sections | score %d",
		m.cfg.MyClass, m.cfg.MySection, s.QSOCount, s.MultiplierCount, s.TotalScore)
}

func (m *FieldDayMode) ExportCabrillo() (string, error) {
	return renderCabrillo("ARRL-FD", m.cfg.MyCallsign, m.Score(), m.entries), nil
}

func (m *FieldDayMode) restore(entries []Entry) {
	for _, e := range entries {
		m.Record(e)
	}
}
