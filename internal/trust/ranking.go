package trust

import (
	"sort"
	"time"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

// Mode admission thresholds.
type modeFilter struct {
	minTrust   float64
	maxRisk    models.RiskLabel
	qualityOK  bool // require OK data quality
	executable bool // require an EXECUTE scan action
}

var modeFilters = map[models.Mode]modeFilter{
	models.ModeConservative: {minTrust: 70, maxRisk: models.RiskLow, qualityOK: true, executable: true},
	models.ModeBalanced:     {minTrust: 55, maxRisk: models.RiskMed},
	models.ModeAggressive:   {minTrust: 40, maxRisk: models.RiskHigh},
}

var riskOrder = map[models.RiskLabel]int{
	models.RiskLow:  0,
	models.RiskMed:  1,
	models.RiskHigh: 2,
}

// ValidMode reports whether m is a recognized ranking mode.
func ValidMode(m models.Mode) bool {
	_, ok := modeFilters[m]
	return ok
}

// Rank filters the scored rows by mode and sorts by trust descending,
// breaking ties by scan score then symbol for a stable presentation.
func Rank(assets []models.ScoredAsset, mode models.Mode, regime string, degraded bool) *models.ScoredUniverse {
	f, ok := modeFilters[mode]
	if !ok {
		mode, f = models.ModeBalanced, modeFilters[models.ModeBalanced]
	}

	kept := make([]models.ScoredAsset, 0, len(assets))
	for _, a := range assets {
		if a.TrustScore < f.minTrust {
			continue
		}
		if riskOrder[a.Risk] > riskOrder[f.maxRisk] {
			continue
		}
		if f.qualityOK && a.Quality != models.QualityOK {
			continue
		}
		if f.executable && a.ScanAction != models.ActionExecute {
			continue
		}
		kept = append(kept, a)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].TrustScore != kept[j].TrustScore {
			return kept[i].TrustScore > kept[j].TrustScore
		}
		if kept[i].ScanScore != kept[j].ScanScore {
			return kept[i].ScanScore > kept[j].ScanScore
		}
		return kept[i].Symbol < kept[j].Symbol
	})

	return &models.ScoredUniverse{
		Timestamp: time.Now().UTC(),
		Mode:      mode,
		Regime:    regime,
		Degraded:  degraded,
		Assets:    kept,
	}
}
