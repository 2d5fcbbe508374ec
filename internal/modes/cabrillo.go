package modes

import (
	"fmt"
	"strings"
)

// createdBy identifies the log generator in Cabrillo headers.
const createdBy = "TermLog"

// renderCabrillo produces a Cabrillo v3 log: header, one QSO: line per
// contact in logged order, END-OF-LOG footer. Field order per the Cabrillo
// spec: frequency in kHz, mode code, date, time, sent side, received side.
func renderCabrillo(contest, myCall string, score Score, entries []Entry) string {
	var b strings.Builder

	b.WriteString("START-OF-LOG: 3.0\n")
	fmt.Fprintf(&b, "CONTEST: %s\n", strings.ToUpper(contest))
	fmt.Fprintf(&b, "CALLSIGN: %s\n", strings.ToUpper(myCall))
	fmt.Fprintf(&b, "CLAIMED-SCORE: %d\n", score.TotalScore)
	fmt.Fprintf(&b, "CREATED-BY: %s\n", createdBy)

	for _, e := range entries {
		b.WriteString(cabrilloQSOLine(myCall, e))
		b.WriteByte('\n')
	}

	b.WriteString("END-OF-LOG:\n")
	return b.String()
}

// cabrilloQSOLine formats a single contact. Exchanges with no RST get a
// default 59 report so every line carries both columns.
func cabrilloQSOLine(myCall string, e Entry) string {
	sent := e.ExchangeSent
	if sent == "" {
		sent = "59"
	}
	rcvd := e.ExchangeRcvd
	if rcvd == "" {
		rcvd = "59"
	}
	return fmt.Sprintf("QSO: %05d %s %s %s %-13s %-14s %-13s %s",
		freqKHz(e.Frequency),
		e.Mode.CabrilloCode(),
		e.Time.UTC().Format("2006-01-02"),
		e.Time.UTC().Format("1504"),
		strings.ToUpper(myCall),
		sent,
		e.Callsign,
		rcvd,
	)
}

// freqKHz converts MHz to the integer kHz Cabrillo expects.
func freqKHz(mhz float64) int {
	return int(mhz*1000 + 0.5)
}
