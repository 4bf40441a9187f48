// Package privacy decides how a sample taken inside a user-defined privacy
// area is recorded.
package privacy

import (
	"obs-logger/models"
)

// Decision is the outcome of evaluating the privacy policy for one sample.
type Decision int

const (
	// Pass records the sample in full.
	Pass Decision = iota
	// Redact records the sample with the position fields blanked.
	Redact
	// Suppress drops the sample; nothing is written.
	Suppress
)

func (d Decision) String() string {
	switch d {
	case Pass:
		return "pass"
	case Redact:
		return "redact"
	case Suppress:
		return "suppress"
	}
	return "unknown"
}

// Decide evaluates policy for set. The containment flag on the sample is
// trusted as computed by the sampling loop; with no areas configured every
// sample passes.
//
// Order matters: AbsolutePrivacy and a confirmed OverridePrivacy both take
// precedence over NoPosition. NoPrivacy never changes the outcome.
func Decide(set *models.DataSet, policy models.PrivacyPolicy, areas []models.PrivacyArea) Decision {
	if len(areas) == 0 || !set.InsidePrivacyArea {
		return Pass
	}
	overridden := policy.Has(models.OverridePrivacy) && set.Confirmed
	if policy.Has(models.AbsolutePrivacy) && !overridden {
		return Suppress
	}
	if policy.Has(models.OverridePrivacy) && !set.Confirmed {
		return Suppress
	}
	if policy.Has(models.NoPosition) && !overridden {
		return Redact
	}
	return Pass
}
