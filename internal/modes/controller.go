package modes

import (
	"fmt"

	"github.com/termlog/termlog/internal/core"
)

// Controller is the operating-mode state machine. It is either Inactive
// (no mode, plain logging) or Active (exactly one mode). The host owns one
// Controller and drives it synchronously from its event loop; the
// Controller holds no locks and expects no concurrent callers.
type Controller struct {
	mode Mode // nil while inactive
}

// NewController returns an inactive controller.
func NewController() *Controller {
	return &Controller{}
}

// Active reports whether an operating mode is running.
func (c *Controller) Active() bool {
	return c.mode != nil
}

// Kind returns the active mode's kind, or KindGeneral when inactive.
func (c *Controller) Kind() Kind {
	if c.mode == nil {
		return KindGeneral
	}
	return c.mode.Kind()
}

// Start begins a new mode, discarding any previous mode's state.
// Starting KindGeneral simply returns to inactive. Returns
// core.ErrInvalidConfig (wrapped) for structurally bad configs, leaving
// the previous mode untouched.
func (c *Controller) Start(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Kind == KindGeneral {
		c.mode = nil
		return nil
	}
	c.mode = newMode(cfg)
	return nil
}

// Resume rebuilds an active mode from a persisted session: it starts the
// mode and replays the contacts already logged under it, in order, so
// counters and multiplier sets pick up where the previous run stopped.
func (c *Controller) Resume(cfg Config, logged []Entry) error {
	if err := c.Start(cfg); err != nil {
		return err
	}
	switch m := c.mode.(type) {
	case *ContestMode:
		m.restore(logged)
	case *POTAActivationMode:
		m.restore(logged)
	case *POTAHunterMode:
		m.restore(logged)
	case *FieldDayMode:
		m.restore(logged)
	}
	return nil
}

// IsDuplicate runs the active mode's dupe rule against a draft contact.
// Informational only; the host decides whether to warn or proceed.
// Always false while inactive.
func (c *Controller) IsDuplicate(d Entry) bool {
	if c.mode == nil {
		return false
	}
	return c.mode.IsDuplicate(d)
}

// OutgoingExchange returns what the next logged contact will send,
// without advancing any counters. Empty while inactive.
func (c *Controller) OutgoingExchange() string {
	if c.mode == nil {
		return ""
	}
	return c.mode.ExchangePreview()
}

// LogContact runs the full per-contact path: dupe check, exchange stamp,
// record. The dupe result is informational; the contact is recorded either
// way. The QSO's ExchangeSent field is stamped in place before the host
// persists it. While inactive this is a no-op passthrough returning
// (false, "").
func (c *Controller) LogContact(q *core.QSO) (isDuplicate bool, exchange string) {
	if c.mode == nil {
		return false, ""
	}
	draft := EntryFromQSO(q)
	isDuplicate = c.mode.IsDuplicate(draft)
	exchange = c.mode.FormatExchange()
	q.ExchangeSent = exchange
	draft.ExchangeSent = exchange
	c.mode.Record(draft)
	return isDuplicate, exchange
}

// End stops the active mode and returns its final score.
func (c *Controller) End() (Score, error) {
	if c.mode == nil {
		return Score{}, core.ErrNoActiveMode
	}
	final := c.mode.Score()
	c.mode = nil
	return final, nil
}

// CurrentScore returns the running score of the active mode.
func (c *Controller) CurrentScore() (Score, error) {
	if c.mode == nil {
		return Score{}, core.ErrNoActiveMode
	}
	return c.mode.Score(), nil
}

// StatusText returns a one-line summary for the status bar. Valid in any
// state; inactive controllers report general logging.
func (c *Controller) StatusText() string {
	if c.mode == nil {
		return "General Logging"
	}
	return c.mode.StatusText()
}

// Export renders the active mode's log in Cabrillo form. Returns
// core.ErrNoActiveMode when inactive and core.ErrUnsupportedExport
// (wrapped) for modes with no export format.
func (c *Controller) Export() (string, error) {
	if c.mode == nil {
		return "", core.ErrNoActiveMode
	}
	out, err := c.mode.ExportCabrillo()
	if err != nil {
		return "", fmt.Errorf("export %s: %w", c.mode.Kind(), err)
	}
	return out, nil
}

// Name returns the active mode's display name, or "" when inactive.
func (c *Controller) Name() string {
	if c.mode == nil {
		return ""
	}
	return c.mode.Name()
}
