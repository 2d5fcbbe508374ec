package adif

import (
	"strings"
	"testing"
	"time"

	"github.com/termlog/termlog/internal/core"
)

func sampleQSO() *core.QSO {
	return &core.QSO{
		Callsign:     "K5XYZ",
		Frequency:    14.250,
		Mode:         core.ModeSSB,
		RSTSent:      "59",
		RSTRcvd:      "57",
		Time:         time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC),
		ExchangeSent: "59 001",
		GridSquare:   "EM12",
		POTARef:      "US-1211",
		Notes:        "picnic table setup",
	}
}

// ============================================================================
// Export
// ============================================================================

func TestExport_HeaderAndRecord(t *testing.T) {
	out := Export([]*core.QSO{sampleQSO()})

	if !strings.Contains(out, "<EOH>") {
		t.Error("export missing <EOH> header terminator")
	}
	for _, want := range []string{
		"<CALL:5>K5XYZ",
		"<QSO_DATE:8>20250614",
		"<TIME_ON:4>1830",
		"<BAND:3>20M",
		"<MODE:3>SSB",
		"<POTA_REF:7>US-1211",
		"<EOR>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}
}

func TestExport_SkipsEmptyFields(t *testing.T) {
	q := sampleQSO()
	q.Name = ""
	q.Country = ""
	out := Export([]*core.QSO{q})

	if strings.Contains(out, "<NAME:") || strings.Contains(out, "<COUNTRY:") {
		t.Errorf("export should omit empty fields:\n%s", out)
	}
}

// ============================================================================
// Import
// ============================================================================

func TestImport_RoundTrip(t *testing.T) {
	orig := sampleQSO()
	qsos, err := Import(Export([]*core.QSO{orig}))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(qsos) != 1 {
		t.Fatalf("Import() returned %d QSOs, want 1", len(qsos))
	}

	got := qsos[0]
	if got.Callsign != orig.Callsign {
		t.Errorf("Callsign = %q, want %q", got.Callsign, orig.Callsign)
	}
	if !got.Time.Equal(orig.Time) {
		t.Errorf("Time = %v, want %v", got.Time, orig.Time)
	}
	if got.Frequency != orig.Frequency {
		t.Errorf("Frequency = %v, want %v", got.Frequency, orig.Frequency)
	}
	if got.ExchangeSent != "59 001" {
		t.Errorf("ExchangeSent = %q, want %q", got.ExchangeSent, "59 001")
	}
	if got.POTARef != "US-1211" {
		t.Errorf("POTARef = %q, want %q", got.POTARef, "US-1211")
	}
}

func TestImport_TolerantOfUnknownFieldsAndCase(t *testing.T) {
	data := `some header text
<eoh>
<call:4>W1AW<qso_date:8>20250601<time_on:6>123045<mode:2>CW
<APP_WEIRD_FIELD:3>abc<eor>
`
	qsos, err := Import(data)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(qsos) != 1 {
		t.Fatalf("Import() returned %d QSOs, want 1", len(qsos))
	}
	q := qsos[0]
	if q.Callsign != "W1AW" || q.Mode != core.ModeCW {
		t.Errorf("parsed %+v", q)
	}
	if q.Time.Hour() != 12 || q.Time.Minute() != 30 {
		t.Errorf("six-digit TIME_ON mishandled: %v", q.Time)
	}
}

func TestImport_DropsRecordsWithoutCallsign(t *testing.T) {
	data := `<EOH><QSO_DATE:8>20250601<MODE:3>SSB<EOR><CALL:4>W1AW<QSO_DATE:8>20250601<EOR>`
	qsos, err := Import(data)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(qsos) != 1 {
		t.Errorf("Import() returned %d QSOs, want 1 (callsign-less record dropped)", len(qsos))
	}
}

func TestImport_EmptyInput(t *testing.T) {
	qsos, err := Import("")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(qsos) != 0 {
		t.Errorf("Import(\"\") returned %d QSOs, want 0", len(qsos))
	}
}
