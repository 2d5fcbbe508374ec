package modes

import (
	"errors"
	"strings"
	"testing"

	"github.com/termlog/termlog/internal/core"
)

func startFieldDay(t *testing.T, powerCat string) *Controller {
	t.Helper()
	c := NewController()
	err := c.Start(Config{
		Kind:       KindFieldDay,
		MyCallsign: "W1AW",
		MyClass:    "2A",
		MySection:  "CO",
		PowerCat:   powerCat,
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return c
}

// ============================================================================
// Field Day
// ============================================================================

func TestFieldDay_RequiresClassAndSection(t *testing.T) {
	c := NewController()
	err := c.Start(Config{Kind: KindFieldDay, MyClass: "2A"})
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Start() without section: error = %v, want ErrInvalidConfig", err)
	}
	err = c.Start(Config{Kind: KindFieldDay, MyClass: "2A", MySection: "CO", PowerCat: "MEGA"})
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Start() with bad power category: error = %v, want ErrInvalidConfig", err)
	}
}

func TestFieldDay_ExchangeIsClassAndSection(t *testing.T) {
	c := startFieldDay(t, "")
	if got := c.OutgoingExchange(); got != "2A CO" {
		t.Errorf("OutgoingExchange() = %q, want %q", got, "2A CO")
	}
}

func TestFieldDay_DupeIgnoresBandAndMode(t *testing.T) {
	c := startFieldDay(t, "")
	c.LogContact(testQSO("K1AA", 14.250, core.ModeSSB))

	if !c.IsDuplicate(EntryFromQSO(testQSO("K1AA", 7.025, core.ModeCW))) {
		t.Error("field day takes one exchange per station, any band/mode repeat is a dupe")
	}
	if c.IsDuplicate(EntryFromQSO(testQSO("K2BB", 14.250, core.ModeSSB))) {
		t.Error("new callsign should not be a dupe")
	}

	// The repeat is logged but scores nothing
	c.LogContact(testQSO("K1AA", 7.025, core.ModeCW))
	score, _ := c.CurrentScore()
	if score.QSOCount != 2 {
		t.Errorf("QSOCount = %d, want 2", score.QSOCount)
	}
	if score.TotalScore != 1*2 {
		t.Errorf("TotalScore = %d, want 2 (one valid contact at LOW power)", score.TotalScore)
	}
}

func TestFieldDay_PowerClassMultiplier(t *testing.T) {
	tests := []struct {
		powerCat string
		want     int
	}{
		{"", 2}, // default LOW
		{"LOW", 2},
		{"QRP", 5},
		{"HIGH", 1},
	}

	for _, tt := range tests {
		c := startFieldDay(t, tt.powerCat)
		c.LogContact(testQSO("K1AA", 14.250, core.ModeSSB))
		c.LogContact(testQSO("K2BB", 14.250, core.ModeSSB))
		c.LogContact(testQSO("K3CC", 14.250, core.ModeSSB))

		score, _ := c.CurrentScore()
		if score.ClassMultiplier != tt.want {
			t.Errorf("powerCat %q: ClassMultiplier = %d, want %d", tt.powerCat, score.ClassMultiplier, tt.want)
		}
		if score.TotalScore != 3*tt.want {
			t.Errorf("powerCat %q: TotalScore = %d, want %d", tt.powerCat, score.TotalScore, 3*tt.want)
		}
	}
}

func TestFieldDay_SectionsCountedFromExchange(t *testing.T) {
	c := startFieldDay(t, "")

	q1 := testQSO("K1AA", 14.250, core.ModeSSB)
	q1.ExchangeRcvd = "3A CO"
	c.LogContact(q1)

	q2 := testQSO("K2BB", 14.250, core.ModeSSB)
	q2.ExchangeRcvd = "1D STX"
	c.LogContact(q2)

	q3 := testQSO("K3CC", 14.250, core.ModeSSB)
	q3.State = "CO" // explicit section field wins over exchange parsing
	c.LogContact(q3)

	score, _ := c.CurrentScore()
	if score.MultiplierCount != 2 {
		t.Errorf("MultiplierCount = %d, want 2 distinct sections", score.MultiplierCount)
	}
}

func TestFieldDay_ExportCarriesClassSection(t *testing.T) {
	c := startFieldDay(t, "")
	c.LogContact(testQSO("K1AA", 14.250, core.ModeSSB))

	out, err := c.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(out, "CONTEST: ARRL-FD") {
		t.Error("export missing contest name header")
	}
	if !strings.Contains(out, "2A CO") {
		t.Errorf("export QSO lines should carry the sent class+section:\n%s", out)
	}
}
