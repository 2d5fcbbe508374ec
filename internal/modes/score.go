package modes

import "fmt"

// ParkQualifyThreshold is the number of distinct-contact credits a park
// needs before the activation counts toward the POTA award. This is a
// program rule, not a configuration knob.
const ParkQualifyThreshold = 10

// ParkStatus is the per-park slice of a POTA score breakdown.
type ParkStatus struct {
	Ref       string `json:"ref"`
	Credits   int    `json:"credits"`
	Qualified bool   `json:"qualified"`
}

// Score is a snapshot of a mode's running score. It is recomputed from
// mode state on demand and never mutated in place.
type Score struct {
	QSOCount        int `json:"qso_count"`
	Valid           int `json:"valid_count"` // contacts counting toward score (dupes excluded)
	MultiplierCount int `json:"multiplier_count"`
	TotalScore      int `json:"total_score"`

	// Parks carries the per-park breakdown for POTA modes, in the
	// activation's configured park order (activator) or first-worked
	// order (hunter).
	Parks []ParkStatus `json:"parks,omitempty"`

	// ClassMultiplier is the Field Day power-class multiplier applied
	// to the contact count. Zero for other modes.
	ClassMultiplier int `json:"class_multiplier,omitempty"`
}

// Summary renders the score for notifications and status lines. The
// multiplied forms use the valid-contact count so the shown arithmetic
// holds even when the log carries dupes.
func (s Score) Summary() string {
	switch {
	case s.ClassMultiplier > 0:
		return fmt.Sprintf("%d QSOs x %d (power class) = %d", s.Valid, s.ClassMultiplier, s.TotalScore)
	case s.MultiplierCount > 0:
		return fmt.Sprintf("%d QSOs x %d mults = %d", s.Valid, s.MultiplierCount, s.TotalScore)
	default:
		return fmt.Sprintf("%d QSOs, score %d", s.QSOCount, s.TotalScore)
	}
}
