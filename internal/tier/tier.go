// Package tier suggests complexity and speed tiers for an intake submission.
// The suggestion is advisory: admins may overwrite both fields later without
// re-running the rules.
package tier

import (
	"strings"

	"clipdesk/internal/domain"
)

// Ruleset carries the tunable parts of the classifier. Zero values are not
// usable; start from Default or the loaded service config.
type Ruleset struct {
	// EliteKeywords force ELITE complexity when any appears in the notes,
	// matched case-insensitively. This override wins over the volume rules.
	EliteKeywords []string
	// BasicVolumeMax is the largest weekly volume still eligible for BASIC.
	BasicVolumeMax int
	// EliteVolumeMin is the smallest weekly volume that alone forces ELITE.
	EliteVolumeMin int
}

// Default returns the production ruleset.
func Default() Ruleset {
	return Ruleset{
		EliteKeywords:  []string{"motion graphics", "after effects", "multi-cam", "sound design", "multicam"},
		BasicVolumeMax: 5,
		EliteVolumeMin: 16,
	}
}

// Classify maps intake attributes to a suggested (complexity, speed) pair.
// Later rules override earlier ones: the keyword override is evaluated last
// and wins unconditionally.
func (r Ruleset) Classify(needType string, volumePerWeek int, turnaround, notes string) (complexity, speed string) {
	speed = domain.SpeedStandard
	if turnaround == domain.TurnaroundRush {
		speed = domain.SpeedRush
	}

	complexity = domain.ComplexityPro
	switch {
	case (needType == "Captions" || needType == "Smart Cut") && volumePerWeek <= r.BasicVolumeMax:
		complexity = domain.ComplexityBasic
	case volumePerWeek >= r.EliteVolumeMin:
		complexity = domain.ComplexityElite
	case needType == "Repurpose" || volumePerWeek > r.BasicVolumeMax:
		complexity = domain.ComplexityPro
	}

	lowered := strings.ToLower(notes)
	for _, kw := range r.EliteKeywords {
		if strings.Contains(lowered, kw) {
			complexity = domain.ComplexityElite
			break
		}
	}
	return complexity, speed
}
