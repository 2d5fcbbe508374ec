package modes

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/termlog/termlog/internal/core"
)

// testQSO builds a minimal QSO for engine tests.
func testQSO(call string, freq float64, mode core.EmissionMode) *core.QSO {
	return &core.QSO{
		Callsign:  call,
		Frequency: freq,
		Mode:      mode,
		Time:      time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC),
	}
}

func startContest(t *testing.T) *Controller {
	t.Helper()
	c := NewController()
	err := c.Start(Config{
		Kind:        KindContest,
		MyCallsign:  "W1AW",
		ContestName: "CQ-WW-SSB",
		MyExchange:  "5",
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return c
}

// ============================================================================
// Dupe Policy
// ============================================================================

func TestContest_DuplicateSameBandMode(t *testing.T) {
	c := startContest(t)

	q1 := testQSO("K5XYZ", 14.250, core.ModeSSB)
	if dupe, _ := c.LogContact(q1); dupe {
		t.Error("first contact should not be a dupe")
	}

	q2 := testQSO("K5XYZ", 14.310, core.ModeSSB) // same band, same mode
	if !c.IsDuplicate(EntryFromQSO(q2)) {
		t.Error("same callsign+band+mode should be a dupe")
	}

	q3 := testQSO("K5XYZ", 7.150, core.ModeSSB) // different band
	if c.IsDuplicate(EntryFromQSO(q3)) {
		t.Error("same callsign on a different band should not be a dupe")
	}

	q4 := testQSO("K5XYZ", 14.050, core.ModeCW) // different mode
	if c.IsDuplicate(EntryFromQSO(q4)) {
		t.Error("same callsign with a different mode should not be a dupe")
	}
}

func TestContest_DupeIsInformationalNotBlocking(t *testing.T) {
	c := startContest(t)

	q1 := testQSO("K5XYZ", 14.250, core.ModeSSB)
	q1.CQZone = 14
	c.LogContact(q1)
	q2 := testQSO("K5XYZ", 14.250, core.ModeSSB)
	q2.CQZone = 14
	dupe, exchange := c.LogContact(q2)

	if !dupe {
		t.Error("second identical contact should report dupe")
	}
	if exchange == "" {
		t.Error("dupe contact should still get an exchange")
	}

	score, err := c.CurrentScore()
	if err != nil {
		t.Fatalf("CurrentScore() error = %v", err)
	}
	if score.QSOCount != 2 {
		t.Errorf("QSOCount = %d, want 2 (dupes are recorded, not blocked)", score.QSOCount)
	}
	if score.TotalScore != 1 {
		t.Errorf("TotalScore = %d, want 1 (the dupe scores nothing)", score.TotalScore)
	}
}

// ============================================================================
// Exchange Formatter / serial numbers
// ============================================================================

func TestContest_SerialNumbersStrictlyIncreasing(t *testing.T) {
	c := startContest(t)

	want := []string{"59 001", "59 002", "59 003"}
	calls := []string{"K1AA", "K2BB", "K3CC"}
	for i, call := range calls {
		_, exchange := c.LogContact(testQSO(call, 14.250, core.ModeSSB))
		if exchange != want[i] {
			t.Errorf("contact %d exchange = %q, want %q", i+1, exchange, want[i])
		}
	}
}

func TestContest_ExchangeFormatTokens(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"RST+SN", "59 001"},
		{"RST+EXCH", "59 5"},
		{"SN", "001"},
		{"RST+SN+EXCH", "59 001 5"},
	}

	for _, tt := range tests {
		got := renderExchange(tt.format, 1, "5")
		if got != tt.want {
			t.Errorf("renderExchange(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestContest_PreviewDoesNotAdvanceSerial(t *testing.T) {
	c := startContest(t)

	first := c.OutgoingExchange()
	second := c.OutgoingExchange()
	if first != second {
		t.Errorf("preview changed the serial: %q then %q", first, second)
	}

	_, logged := c.LogContact(testQSO("K1AA", 14.250, core.ModeSSB))
	if logged != first {
		t.Errorf("logged exchange = %q, want previewed %q", logged, first)
	}
}

// ============================================================================
// Score Calculator
// ============================================================================

func TestContest_ScoreIsQSOsTimesMultipliers(t *testing.T) {
	c := startContest(t)

	// 5 contacts across 3 distinct zones
	zones := []int{14, 14, 15, 16, 15}
	calls := []string{"K1AA", "K2BB", "K3CC", "K4DD", "K5EE"}
	for i, call := range calls {
		q := testQSO(call, 14.250, core.ModeSSB)
		q.CQZone = zones[i]
		c.LogContact(q)
	}

	score, err := c.CurrentScore()
	if err != nil {
		t.Fatalf("CurrentScore() error = %v", err)
	}
	if score.QSOCount != 5 {
		t.Errorf("QSOCount = %d, want 5", score.QSOCount)
	}
	if score.MultiplierCount != 3 {
		t.Errorf("MultiplierCount = %d, want 3", score.MultiplierCount)
	}
	if score.TotalScore != 15 {
		t.Errorf("TotalScore = %d, want 15", score.TotalScore)
	}
}

func TestContest_ZoneMultiplierFromReceivedExchange(t *testing.T) {
	c := startContest(t)

	// No CQZone and no grid on the record, only the spoken exchange
	exchanges := []string{"59 14", "59 15", "59 16"}
	calls := []string{"K1AA", "K2BB", "K3CC"}
	for i, call := range calls {
		q := testQSO(call, 14.250, core.ModeSSB)
		q.ExchangeRcvd = exchanges[i]
		c.LogContact(q)
	}

	score, err := c.CurrentScore()
	if err != nil {
		t.Fatalf("CurrentScore() error = %v", err)
	}
	if score.QSOCount != 3 {
		t.Errorf("QSOCount = %d, want 3", score.QSOCount)
	}
	if score.MultiplierCount != 3 {
		t.Errorf("MultiplierCount = %d, want 3 zones from exchanges", score.MultiplierCount)
	}
	if score.TotalScore != 9 {
		t.Errorf("TotalScore = %d, want 9", score.TotalScore)
	}
}

func TestContest_ExchangeZoneParsing(t *testing.T) {
	tests := []struct {
		exch string
		want string
	}{
		{"59 15", "15"},
		{"59 05", "5"}, // normalized, counts once with "5"
		{"59 5", "5"},
		{"59 001", ""}, // serial, not a zone
		{"59 41", ""},  // out of zone range
		{"59 CO", ""},  // section
		{"59", ""},     // bare RST
		{"", ""},
	}
	for _, tt := range tests {
		if got := exchangeZone(tt.exch); got != tt.want {
			t.Errorf("exchangeZone(%q) = %q, want %q", tt.exch, got, tt.want)
		}
	}
}

func TestContest_SummaryArithmeticExcludesDupes(t *testing.T) {
	c := startContest(t)

	q1 := testQSO("K1AA", 14.250, core.ModeSSB)
	q1.CQZone = 14
	c.LogContact(q1)
	q2 := testQSO("K1AA", 14.250, core.ModeSSB) // dupe, scores nothing
	q2.CQZone = 14
	c.LogContact(q2)

	score, _ := c.CurrentScore()
	if score.QSOCount != 2 || score.Valid != 1 {
		t.Fatalf("QSOCount = %d, Valid = %d, want 2 and 1", score.QSOCount, score.Valid)
	}
	if got := score.Summary(); !strings.Contains(got, "1 QSOs x 1 mults = 1") {
		t.Errorf("Summary() = %q, should multiply out from the valid count", got)
	}
}

func TestContest_ScoreIsIdempotent(t *testing.T) {
	c := startContest(t)
	q := testQSO("K1AA", 14.250, core.ModeSSB)
	q.CQZone = 14
	c.LogContact(q)

	first, _ := c.CurrentScore()
	for i := 0; i < 10; i++ {
		again, _ := c.CurrentScore()
		if again.QSOCount != first.QSOCount ||
			again.MultiplierCount != first.MultiplierCount ||
			again.TotalScore != first.TotalScore {
			t.Fatalf("score changed on read %d: %+v != %+v", i, again, first)
		}
	}
}

// ============================================================================
// Session restore
// ============================================================================

func TestContest_ResumeContinuesSerial(t *testing.T) {
	c := startContest(t)
	c.LogContact(testQSO("K1AA", 14.250, core.ModeSSB))
	c.LogContact(testQSO("K2BB", 14.250, core.ModeSSB))

	// Simulate restart: rebuild from the recorded entries
	logged := []Entry{
		{Callsign: "K1AA", Band: core.Band20m, Mode: core.ModeSSB, ExchangeSent: "59 001"},
		{Callsign: "K2BB", Band: core.Band20m, Mode: core.ModeSSB, ExchangeSent: "59 002"},
	}
	resumed := NewController()
	err := resumed.Resume(Config{
		Kind: KindContest, MyCallsign: "W1AW", ContestName: "CQ-WW-SSB",
	}, logged)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}

	_, exchange := resumed.LogContact(testQSO("K3CC", 14.250, core.ModeSSB))
	if exchange != "59 003" {
		t.Errorf("resumed exchange = %q, want %q", exchange, "59 003")
	}
	if !resumed.IsDuplicate(EntryFromQSO(testQSO("K1AA", 14.250, core.ModeSSB))) {
		t.Error("resumed session should remember dupes")
	}
}

func TestContest_EndThenStartResetsState(t *testing.T) {
	c := startContest(t)
	q := testQSO("K1AA", 14.250, core.ModeSSB)
	q.CQZone = 14
	c.LogContact(q)

	final, err := c.End()
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if final.QSOCount != 1 {
		t.Errorf("final QSOCount = %d, want 1", final.QSOCount)
	}

	if err := c.Start(Config{Kind: KindContest, MyCallsign: "W1AW", ContestName: "NAQP"}); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	_, exchange := c.LogContact(testQSO("K9ZZ", 14.250, core.ModeSSB))
	if !strings.HasSuffix(exchange, "001") {
		t.Errorf("serial after restart = %q, want it to end in 001", exchange)
	}
	score, _ := c.CurrentScore()
	if score.QSOCount != 1 || score.MultiplierCount != 0 {
		t.Errorf("state leaked across mode instances: %+v", score)
	}
}

// ============================================================================
// Export
// ============================================================================

func TestContest_ExportOneLinePerContact(t *testing.T) {
	c := startContest(t)
	c.LogContact(testQSO("K1AA", 14.250, core.ModeSSB))
	c.LogContact(testQSO("K2BB", 7.025, core.ModeCW))

	out, err := c.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var qsoLines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "QSO: ") {
			qsoLines = append(qsoLines, line)
		}
	}
	if len(qsoLines) != 2 {
		t.Fatalf("export has %d QSO lines, want 2:\n%s", len(qsoLines), out)
	}
	if !strings.Contains(qsoLines[0], "14250") || !strings.Contains(qsoLines[0], "K1AA") {
		t.Errorf("first QSO line missing frequency or callsign: %q", qsoLines[0])
	}
	if !strings.Contains(qsoLines[1], "07025") || !strings.Contains(qsoLines[1], "CW") {
		t.Errorf("second QSO line missing frequency or mode: %q", qsoLines[1])
	}
	if !strings.HasPrefix(out, "START-OF-LOG: 3.0\n") {
		t.Error("export missing Cabrillo header")
	}
	if !strings.HasSuffix(out, "END-OF-LOG:\n") {
		t.Error("export missing END-OF-LOG footer")
	}
	if !strings.Contains(out, "CALLSIGN: W1AW") {
		t.Error("export missing station callsign")
	}
}

// ============================================================================
// Config validation
// ============================================================================

func TestContest_StartRejectsMissingName(t *testing.T) {
	c := NewController()
	err := c.Start(Config{Kind: KindContest})
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Start() error = %v, want ErrInvalidConfig", err)
	}
	if c.Active() {
		t.Error("controller should stay inactive after a rejected config")
	}
}
