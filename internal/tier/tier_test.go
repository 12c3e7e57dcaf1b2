package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	rules := Default()
	cases := []struct {
		name           string
		needType       string
		volume         int
		turnaround     string
		notes          string
		wantComplexity string
		wantSpeed      string
	}{
		{"captions low volume", "Captions", 3, "24-48h", "", "BASIC", "STANDARD"},
		{"smart cut at basic max", "Smart Cut", 5, "24-48h", "", "BASIC", "STANDARD"},
		{"captions above basic max", "Captions", 6, "24-48h", "", "PRO", "STANDARD"},
		{"repurpose low volume still pro", "Repurpose", 2, "24-48h", "", "PRO", "STANDARD"},
		{"social edit mid volume", "Social Edit", 8, "24-48h", "", "PRO", "STANDARD"},
		{"high volume forces elite", "Social Edit", 16, "24-48h", "", "ELITE", "STANDARD"},
		{"keyword forces elite", "Captions", 2, "24-48h", "needs After Effects polish", "ELITE", "STANDARD"},
		{"keyword case insensitive", "Smart Cut", 1, "24-48h", "MULTI-CAM sync please", "ELITE", "STANDARD"},
		{"rush turnaround", "Captions", 2, "Rush 12h", "", "BASIC", "RUSH"},
		{"custom turnaround is standard", "Other", 4, "Custom", "", "PRO", "STANDARD"},
		{"keyword wins over basic rule", "Captions", 1, "Rush 12h", "sound design pass", "ELITE", "RUSH"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			complexity, speed := rules.Classify(tc.needType, tc.volume, tc.turnaround, tc.notes)
			assert.Equal(t, tc.wantComplexity, complexity)
			assert.Equal(t, tc.wantSpeed, speed)
		})
	}
}

func TestClassifyCustomRuleset(t *testing.T) {
	rules := Ruleset{
		EliteKeywords:  []string{"vfx"},
		BasicVolumeMax: 2,
		EliteVolumeMin: 10,
	}
	complexity, _ := rules.Classify("Captions", 3, "24-48h", "")
	assert.Equal(t, "PRO", complexity, "volume above custom basic max")

	complexity, _ = rules.Classify("Captions", 2, "24-48h", "")
	assert.Equal(t, "BASIC", complexity)

	complexity, _ = rules.Classify("Social Edit", 10, "24-48h", "")
	assert.Equal(t, "ELITE", complexity)

	complexity, _ = rules.Classify("Captions", 1, "24-48h", "heavy VFX shots")
	assert.Equal(t, "ELITE", complexity)
}
