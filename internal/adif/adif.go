// Package adif reads and writes ADIF (.adi) log files, the plain-text
// interchange format used to move QSOs between loggers and award programs.
package adif

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/termlog/termlog/internal/core"
)

// programID identifies TermLog in ADIF headers.
const programID = "TermLog"

// adifVersion is the ADIF spec version we emit.
const adifVersion = "3.1.4"

// Export renders QSOs as an ADI document: a header, then one record per
// QSO terminated by <EOR>, fields length-prefixed per the ADIF spec.
func Export(qsos []*core.QSO) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generated by %s\n", programID)
	writeField(&b, "ADIF_VER", adifVersion)
	writeField(&b, "PROGRAMID", programID)
	b.WriteString("<EOH>\n\n")

	for _, q := range qsos {
		writeField(&b, "CALL", q.Callsign)
		writeField(&b, "QSO_DATE", q.Time.UTC().Format("20060102"))
		writeField(&b, "TIME_ON", q.Time.UTC().Format("1504"))
		writeField(&b, "FREQ", strconv.FormatFloat(q.Frequency, 'f', -1, 64))
		if band := q.Band(); band != "" {
			writeField(&b, "BAND", strings.ToUpper(string(band)))
		}
		writeField(&b, "MODE", string(q.Mode))
		writeField(&b, "RST_SENT", q.RSTSent)
		writeField(&b, "RST_RCVD", q.RSTRcvd)

		writeField(&b, "STX_STRING", q.ExchangeSent)
		writeField(&b, "SRX_STRING", q.ExchangeRcvd)
		writeField(&b, "NAME", q.Name)
		writeField(&b, "QTH", q.QTH)
		writeField(&b, "STATE", q.State)
		writeField(&b, "COUNTRY", q.Country)
		writeField(&b, "GRIDSQUARE", q.GridSquare)
		if q.CQZone != 0 {
			writeField(&b, "CQZ", strconv.Itoa(q.CQZone))
		}
		if q.ITUZone != 0 {
			writeField(&b, "ITUZ", strconv.Itoa(q.ITUZone))
		}
		writeField(&b, "POTA_REF", q.POTARef)
		writeField(&b, "SOTA_REF", q.SOTARef)
		if q.TxPower != 0 {
			writeField(&b, "TX_PWR", strconv.FormatFloat(q.TxPower, 'f', -1, 64))
		}
		writeField(&b, "OPERATOR", q.Operator)
		writeField(&b, "MY_GRIDSQUARE", q.MyGrid)
		writeField(&b, "MY_POTA_REF", q.MyPOTA)
		writeField(&b, "COMMENT", q.Notes)
		b.WriteString("<EOR>\n")
	}

	return b.String()
}

// writeField emits one <NAME:len>value field. Empty values are skipped.
func writeField(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "<%s:%d>%s ", name, len(value), value)
}

// Import parses an ADI document into QSOs. The parser is tolerant: it
// skips unknown fields, accepts any tag case, and ignores whatever sits
// between fields. Records missing a callsign or date are dropped.
func Import(data string) ([]*core.QSO, error) {
	body := data
	// Everything before <EOH> is header commentary
	if i := indexFold(data, "<EOH>"); i >= 0 {
		body = data[i+len("<EOH>"):]
	}

	var qsos []*core.QSO
	fields := make(map[string]string)

	rest := body
	for {
		name, value, tail, ok := nextField(rest)
		if !ok {
			break
		}
		rest = tail

		if name == "EOR" {
			if q, ok := qsoFromFields(fields); ok {
				qsos = append(qsos, q)
			}
			fields = make(map[string]string)
			continue
		}
		fields[name] = value
	}

	return qsos, nil
}

// nextField scans for the next <NAME:len> tag and returns the uppercased
// name, the value, and the remaining input. EOR tags carry no length.
func nextField(s string) (name, value, rest string, ok bool) {
	start := strings.IndexByte(s, '<')
	if start < 0 {
		return "", "", "", false
	}
	end := strings.IndexByte(s[start:], '>')
	if end < 0 {
		return "", "", "", false
	}
	tag := s[start+1 : start+end]
	rest = s[start+end+1:]

	parts := strings.SplitN(tag, ":", 3)
	name = strings.ToUpper(strings.TrimSpace(parts[0]))
	if name == "EOR" || name == "EOH" || len(parts) < 2 {
		return name, "", rest, true
	}

	length, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || length < 0 || length > len(rest) {
		// Malformed length: skip the tag
		return name, "", rest, true
	}
	return name, rest[:length], rest[length:], true
}

// qsoFromFields assembles a QSO from one record's fields.
func qsoFromFields(fields map[string]string) (*core.QSO, bool) {
	call := strings.ToUpper(fields["CALL"])
	date := fields["QSO_DATE"]
	if call == "" || date == "" {
		return nil, false
	}

	timeOn := fields["TIME_ON"]
	switch len(timeOn) {
	case 0:
		timeOn = "0000"
	case 6:
		timeOn = timeOn[:4] // drop seconds
	}
	ts, err := time.Parse("200601021504", date+timeOn)
	if err != nil {
		return nil, false
	}

	q := &core.QSO{
		Callsign: call,
		Time:     ts.UTC(),
		Mode:     core.EmissionMode(strings.ToUpper(fields["MODE"])),
		RSTSent:  fields["RST_SENT"],
		RSTRcvd:  fields["RST_RCVD"],

		ExchangeSent: fields["STX_STRING"],
		ExchangeRcvd: fields["SRX_STRING"],
		Name:         fields["NAME"],
		QTH:          fields["QTH"],
		State:        fields["STATE"],
		Country:      fields["COUNTRY"],
		GridSquare:   fields["GRIDSQUARE"],
		POTARef:      fields["POTA_REF"],
		SOTARef:      fields["SOTA_REF"],
		Operator:     fields["OPERATOR"],
		MyGrid:       fields["MY_GRIDSQUARE"],
		MyPOTA:       fields["MY_POTA_REF"],
		Notes:        fields["COMMENT"],
	}

	if f, err := strconv.ParseFloat(fields["FREQ"], 64); err == nil {
		q.Frequency = f
	}
	if z, err := strconv.Atoi(fields["CQZ"]); err == nil {
		q.CQZone = z
	}
	if z, err := strconv.Atoi(fields["ITUZ"]); err == nil {
		q.ITUZone = z
	}
	if p, err := strconv.ParseFloat(fields["TX_PWR"], 64); err == nil {
		q.TxPower = p
	}
	if q.Mode == "" {
		q.Mode = core.ModeSSB
	}
	return q, true
}

// indexFold finds a substring case-insensitively.
func indexFold(s, sub string) int {
	return strings.Index(strings.ToUpper(s), strings.ToUpper(sub))
}
