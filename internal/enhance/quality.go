package enhance

import (
	"strings"

	"github.com/KirkDiggler/ability-forge/internal/synthesis"
)

// Quality-score weights. These are tuning constants; only the relative
// ordering of scores across artifacts is meaningful, not the exact values.
const (
	maxQuality = 10.0

	weightFlagRichness = 0.5 // Per top-level flag group
	weightScripts      = 0.8 // Per generated behavior script
	weightCoverage     = 3.0 // Scaled by applied passes / total passes

	bonusErrorHandling = 1.0 // Scripts carry failure guards
	bonusPerformance   = 0.5 // Scripts cache per-round state
)

// scoreQuality computes the capped weighted quality score for an artifact:
// flag richness, script count, automation coverage, and fixed bonuses for
// error-handling and performance markers in the generated scripts.
func scoreQuality(a *synthesis.Artifact, applied, total int) float64 {
	score := float64(len(a.Flags)) * weightFlagRichness
	score += float64(len(a.Scripts)) * weightScripts

	if total > 0 {
		score += weightCoverage * float64(applied) / float64(total)
	}

	if scriptsContain(a.Scripts, "onFailure") {
		score += bonusErrorHandling
	}
	if scriptsContain(a.Scripts, "roundCache") {
		score += bonusPerformance
	}

	if score > maxQuality {
		return maxQuality
	}
	return score
}

func scriptsContain(scripts []string, marker string) bool {
	for _, s := range scripts {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
