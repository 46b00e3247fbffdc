package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStyleTokenShortTokens(t *testing.T) {
	for _, raw := range []string{"S01", "S2", "X"} {
		sel := ParseStyleToken(raw)
		assert.Equal(t, raw, sel.StyleID, "token %q", raw)
		assert.Equal(t, TierMedium, sel.Exaggeration)
		assert.Equal(t, DefaultBackgroundID, sel.BackgroundID)
	}
}

func TestParseStyleTokenEmpty(t *testing.T) {
	sel := ParseStyleToken("")
	assert.Equal(t, DefaultStyleID, sel.StyleID)
	assert.Equal(t, TierMedium, sel.Exaggeration)
	assert.Equal(t, DefaultBackgroundID, sel.BackgroundID)
}

func TestParseStyleTokenTierCodes(t *testing.T) {
	tests := []struct {
		raw   string
		style string
		tier  string
	}{
		{"S01A", "S01", TierMild},
		{"S02B", "S02", TierMedium},
		{"S07C", "S07", TierBold},
		{"S03Z", "S03", TierMedium}, // unrecognized code falls back
		{"S05Bxyz", "S05", TierMedium},
	}
	for _, tt := range tests {
		sel := ParseStyleToken(tt.raw)
		assert.Equal(t, tt.style, sel.StyleID, "token %q", tt.raw)
		assert.Equal(t, tt.tier, sel.Exaggeration, "token %q", tt.raw)
	}
}
