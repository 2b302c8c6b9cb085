package game

import "github.com/tatianab/ghost-hunter/internal/models"

var fallbackAnalyses = [...]models.SpectralAnalysis{
	{
		RiskLevel: "Unknown",
		Strategy:  "Hold your ground within the salt circle.",
		Lore:      "The spirits are restless tonight.",
	},
	{
		RiskLevel: "Critical",
		Strategy:  "Save your spirit for the ritual and let the circle draw them in.",
		Lore:      "Old names are being whispered between the tombstones.",
	},
	{
		RiskLevel: "Elevated",
		Strategy:  "Pick off the stragglers before they reach the salt.",
		Lore:      "A cold wind carries the smell of wax and wet earth.",
	},
}

// FallbackAnalysis is the canned analysis used when the oracle cannot
// answer. The choice depends only on the wave.
func FallbackAnalysis(wave int) models.SpectralAnalysis {
	n := len(fallbackAnalyses)
	return fallbackAnalyses[((wave%n)+n)%n]
}
