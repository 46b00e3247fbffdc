package prompt

const (
	DefaultStyleID      = "S01"
	DefaultBackgroundID = "BG01"

	TierMild   = "mild"
	TierMedium = "medium"
	TierBold   = "bold"
)

// Selector - the resolved style tuple a raw style token decodes to
type Selector struct {
	StyleID      string
	Exaggeration string
	BackgroundID string
}

// ParseStyleToken - decode a compact style token like "S01B".
// Tokens of length <= 3 are taken verbatim as the base style id; a 4th
// character selects the exaggeration tier (A=mild, B=medium, C=bold).
// Never fails: empty input and unknown tier codes fall back to defaults.
func ParseStyleToken(raw string) Selector {
	sel := Selector{
		StyleID:      DefaultStyleID,
		Exaggeration: TierMedium,
		BackgroundID: DefaultBackgroundID,
	}

	if len(raw) == 0 {
		return sel
	}

	if len(raw) <= 3 {
		sel.StyleID = raw
		return sel
	}

	sel.StyleID = raw[:3]
	switch raw[3] {
	case 'A':
		sel.Exaggeration = TierMild
	case 'B':
		sel.Exaggeration = TierMedium
	case 'C':
		sel.Exaggeration = TierBold
	default:
		sel.Exaggeration = TierMedium
	}
	return sel
}
