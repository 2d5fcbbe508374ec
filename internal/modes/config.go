// Package modes implements the operating-mode scoring engine: contest,
// POTA activation, POTA hunting and Field Day logging layered on top of
// plain QSO logging. The engine is pure and in-memory; the host persists
// QSOs and hands them back for scoring.
package modes

import (
	"fmt"
	"strings"

	"github.com/termlog/termlog/internal/core"
)

// Kind identifies an operating-mode variant.
type Kind string

const (
	KindGeneral    Kind = "general"
	KindContest    Kind = "contest"
	KindPOTA       Kind = "pota"
	KindPOTAHunter Kind = "pota-hunter"
	KindFieldDay   Kind = "fieldday"
)

// Kinds lists the selectable operating modes, in menu order.
var Kinds = []Kind{KindGeneral, KindContest, KindPOTA, KindPOTAHunter, KindFieldDay}

func (k Kind) String() string { return string(k) }

// DisplayName returns the human-readable name of the mode kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindGeneral:
		return "General Logging"
	case KindContest:
		return "Contest"
	case KindPOTA:
		return "POTA Activation"
	case KindPOTAHunter:
		return "POTA Hunter"
	case KindFieldDay:
		return "Field Day"
	default:
		return string(k)
	}
}

// ParseKind converts a user-supplied string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "general", "":
		return KindGeneral, nil
	case "contest":
		return KindContest, nil
	case "pota", "activation", "pota-activation":
		return KindPOTA, nil
	case "pota-hunter", "hunter":
		return KindPOTAHunter, nil
	case "fieldday", "field-day", "fd":
		return KindFieldDay, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", core.ErrInvalidConfig, s)
	}
}

// Config is the immutable per-mode configuration supplied at Start.
// It is a tagged union: Kind selects the variant and which fields apply.
type Config struct {
	Kind Kind `json:"kind"`

	// Station identity, used for exports and exchanges in every variant
	MyCallsign string `json:"my_callsign"`

	// Contest
	ContestName    string `json:"contest_name,omitempty"`
	ExchangeFormat string `json:"exchange_format,omitempty"` // e.g. "RST+SN"
	MyExchange     string `json:"my_exchange,omitempty"`     // e.g. CQ zone

	// POTA (activator and hunter)
	ParkRefs []string `json:"park_refs,omitempty"` // activator: parks on the air, ordered
	MyState  string   `json:"my_state,omitempty"`
	MyGrid   string   `json:"my_grid,omitempty"`

	// Field Day
	MyClass   string `json:"my_class,omitempty"`   // e.g. "2A"
	MySection string `json:"my_section,omitempty"` // e.g. "CO"
	PowerCat  string `json:"power_cat,omitempty"`  // QRP, LOW or HIGH; default LOW
}

// DefaultExchangeFormat is used when a contest config leaves the format empty.
const DefaultExchangeFormat = "RST+SN"

// Validate checks the config for structural problems. It returns
// core.ErrInvalidConfig (wrapped) when the variant's required fields
// are missing or malformed.
func (c *Config) Validate() error {
	switch c.Kind {
	case KindGeneral:
		return nil
	case KindContest:
		if strings.TrimSpace(c.ContestName) == "" {
			return fmt.Errorf("%w: contest name is required", core.ErrInvalidConfig)
		}
	case KindPOTA:
		if len(c.ParkRefs) == 0 {
			return fmt.Errorf("%w: at least one park reference is required", core.ErrInvalidConfig)
		}
		for _, ref := range c.ParkRefs {
			if strings.TrimSpace(ref) == "" {
				return fmt.Errorf("%w: empty park reference", core.ErrInvalidConfig)
			}
		}
	case KindPOTAHunter:
		// my_state/my_grid are optional enrichment; nothing structural to check
	case KindFieldDay:
		if strings.TrimSpace(c.MyClass) == "" || strings.TrimSpace(c.MySection) == "" {
			return fmt.Errorf("%w: field day class and section are required", core.ErrInvalidConfig)
		}
		if c.PowerCat != "" {
			if _, ok := PowerClassMultipliers[strings.ToUpper(c.PowerCat)]; !ok {
				return fmt.Errorf("%w: unknown power category %q", core.ErrInvalidConfig, c.PowerCat)
			}
		}
	default:
		return fmt.Errorf("%w: unknown mode kind %q", core.ErrInvalidConfig, c.Kind)
	}
	return nil
}
