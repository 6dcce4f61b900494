package screener

import (
	"minervini-screener/internal/analysis"
	"minervini-screener/internal/levels"
	"minervini-screener/internal/patterns"
)

// Component weights: trend template up to 40 points, stage up to 30,
// pattern up to 30.
const trendDenominator = 8

// GradeSetup combines the trend, stage and pattern signals into a
// 0-100 score and a letter grade.
func GradeSetup(trendScore int, stage analysis.Stage, pattern patterns.PatternType) (string, float64) {
	score := float64(trendScore) / trendDenominator * 40

	switch {
	case stage.IsAdvancingIdeal():
		score += 30
	case stage.Number == 2:
		score += 25
	case stage.Number == 1:
		score += 15
	}

	switch pattern {
	case patterns.CupWithHandle:
		score += 30
	case patterns.VCP:
		score += 28
	case patterns.FlatBase:
		score += 25
	default:
		score += 10
	}

	return letterGrade(score), score
}

// letterGrade maps a score to its letter band.
func letterGrade(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 75:
		return "B+"
	case score >= 65:
		return "B"
	case score >= 50:
		return "C+"
	default:
		return "C"
	}
}

// buyableGrades are the grades worth entering at a proper buy point.
var buyableGrades = map[string]bool{"A+": true, "A": true, "B+": true}

// verdict decides BUY or WAIT from the entry status and grade.
func verdict(status, grade string) string {
	atEntry := status == levels.StatusAtBuyPoint || status == levels.StatusBreakingOut
	if atEntry && buyableGrades[grade] {
		return VerdictBuy
	}
	return VerdictWait
}
