package modes

import (
	"fmt"
	"strconv"
	"strings"
)

// ContestMode scores a classic contest: one point per contact, multiplied
// by the number of distinct multiplier entities (zones) worked. Dupes are
// callsign+band+mode repeats.
type ContestMode struct {
	cfg     Config
	entries []Entry
	valid   int             // contacts counting toward score (dupes excluded)
	serial  int             // next serial to issue, starts at 1
	mults   map[string]bool // distinct multiplier keys, append-only
}

func newContestMode(cfg Config) *ContestMode {
	if cfg.ExchangeFormat == "" {
		cfg.ExchangeFormat = DefaultExchangeFormat
	}
	return &ContestMode{
		cfg:    cfg,
		serial: 1,
		mults:  make(map[string]bool),
	}
}

func (m *ContestMode) Kind() Kind   { return KindContest }
func (m *ContestMode) Name() string { return m.cfg.ContestName }

// IsDuplicate applies the classic contest dupe rule: same callsign on the
// same band and emission mode.
func (m *ContestMode) IsDuplicate(d Entry) bool {
	for _, e := range m.entries {
		if e.Callsign == d.Callsign && e.Band == d.Band && e.Mode == d.Mode {
			return true
		}
	}
	return false
}

// ExchangePreview renders the exchange the next contact will send
// without issuing the serial.
func (m *ContestMode) ExchangePreview() string {
	return renderExchange(m.cfg.ExchangeFormat, m.serial, m.cfg.MyExchange)
}

// FormatExchange renders the outgoing exchange from the configured format
// and advances the serial counter. Serials are never reused, even if the
// host later deletes a contact from its store.
func (m *ContestMode) FormatExchange() string {
	out := m.ExchangePreview()
	m.serial++
	return out
}

// renderExchange expands an exchange format like "RST+SN" or "RST+EXCH"
// token by token. Unknown tokens pass through literally.
func renderExchange(format string, serial int, myExchange string) string {
	var parts []string
	for _, tok := range strings.Split(format, "+") {
		switch strings.ToUpper(strings.TrimSpace(tok)) {
		case "RST":
			parts = append(parts, "59")
		case "SN", "SERIAL":
			parts = append(parts, fmt.Sprintf("%03d", serial))
		case "EXCH", "ZONE":
			if myExchange != "" {
				parts = append(parts, myExchange)
			}
		case "":
		default:
			parts = append(parts, strings.TrimSpace(tok))
		}
	}
	return strings.Join(parts, " ")
}

// Record accepts a contact into the history. Dupes stay in the log but
// add neither points nor multipliers.
func (m *ContestMode) Record(e Entry) {
	if !m.IsDuplicate(e) {
		m.valid++
		if key := multiplierKey(e); key != "" {
			m.mults[key] = true
		}
	}
	m.entries = append(m.entries, e)
}

// multiplierKey derives the multiplier entity for a contest contact:
// the CQ zone when known, a zone parsed out of the received exchange
// ("59 15" -> "15"), otherwise the grid square.
func multiplierKey(e Entry) string {
	if e.Zone != "" {
		return e.Zone
	}
	if z := exchangeZone(e.ExchangeRcvd); z != "" {
		return z
	}
	if e.Grid != "" {
		return strings.ToUpper(e.Grid)
	}
	return ""
}

// exchangeZone pulls a CQ zone out of a received exchange. Zones run
// 1..40 and are at most two digits; longer numeric tokens are serials
// and alphabetic tokens are sections, neither multiplies here. The
// value is normalized so "05" and "5" count once.
func exchangeZone(exch string) string {
	fields := strings.Fields(exch)
	if len(fields) == 0 {
		return ""
	}
	tok := fields[len(fields)-1]
	if len(tok) > 2 {
		return ""
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 1 || n > 40 {
		return ""
	}
	return strconv.Itoa(n)
}

func (m *ContestMode) Score() Score {
	mults := len(m.mults)
	return Score{
		QSOCount:        len(m.entries),
		Valid:           m.valid,
		MultiplierCount: mults,
		TotalScore:      m.valid * mults,
	}
}

func (m *ContestMode) StatusText() string {
	s := m.Score()
	return fmt.Sprintf("%s | Next SN: %03d | %s", m.cfg.ContestName, m.serial, s.Summary())
}

func (m *ContestMode) ExportCabrillo() (string, error) {
	return renderCabrillo(m.cfg.ContestName, m.cfg.MyCallsign, m.Score(), m.entries), nil
}

// restore replays previously logged contacts and re-arms the serial
// counter past the highest serial already issued, so a resumed session
// never repeats a number.
func (m *ContestMode) restore(entries []Entry) {
	for _, e := range entries {
		m.Record(e)
		if sn := parseSerial(e.ExchangeSent); sn >= m.serial {
			m.serial = sn + 1
		}
	}
}

// parseSerial pulls the last all-digit token out of a sent exchange.
// Returns 0 when the exchange carries no serial.
func parseSerial(exchange string) int {
	fields := strings.Fields(exchange)
	for i := len(fields) - 1; i >= 0; i-- {
		if n, err := strconv.Atoi(fields[i]); err == nil {
			return n
		}
	}
	return 0
}
