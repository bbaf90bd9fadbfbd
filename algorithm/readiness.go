package algorithm

import (
	"fmt"
	"math"
)

const (
	// A case counts as mastered once it has survived three consecutive
	// reviews and its interval has grown past three weeks.
	MasteredMinRepetitions  = 3
	MasteredMinIntervalDays = 21

	componentCap       = 20
	consistencyDaysCap = 20
	pointsPerDifficulty = 4
)

// ReadinessInput carries the aggregates the readiness score is computed
// from. The caller gathers them; this package only does arithmetic.
type ReadinessInput struct {
	AttemptedCombos      int     // distinct (bodyPart, modality) pairs attempted
	TotalCombos          int     // distinct (bodyPart, modality) pairs in the catalog
	WeightedCorrect      float64 // sum of correct_d * (difficulty_d / 3)
	WeightedAttempts     float64 // sum of attempts_d * (difficulty_d / 3)
	StudyDaysLast30      int
	DistinctDifficulties int
	MasteredCases        int
	TotalCases           int
}

type ScoreComponent struct {
	Score  int    `json:"score"`
	Detail string `json:"detail"`
}

// BoardReadinessScore is a composite 0-100 estimate of exam preparedness.
// Computed on demand, never persisted.
type BoardReadinessScore struct {
	Total     int `json:"total"`
	Breakdown struct {
		Coverage        ScoreComponent `json:"coverage"`
		Accuracy        ScoreComponent `json:"accuracy"`
		Consistency     ScoreComponent `json:"consistency"`
		DifficultySpread ScoreComponent `json:"difficulty_spread"`
		Retention       ScoreComponent `json:"retention"`
	} `json:"breakdown"`
}

// IsMastered reports whether a progress row counts toward the retention
// component.
func IsMastered(repetitions, intervalDays int) bool {
	return repetitions >= MasteredMinRepetitions && intervalDays >= MasteredMinIntervalDays
}

// ComputeReadiness sums five components, each capped at 20, so the total is
// always within [0, 100].
func ComputeReadiness(in ReadinessInput) BoardReadinessScore {
	var score BoardReadinessScore

	coverage := 0
	if in.TotalCombos > 0 {
		coverage = capComponent(int(math.Round(float64(in.AttemptedCombos) / float64(in.TotalCombos) * componentCap)))
	}
	score.Breakdown.Coverage = ScoreComponent{
		Score:  coverage,
		Detail: fmt.Sprintf("%d of %d body-part/modality combinations attempted", in.AttemptedCombos, in.TotalCombos),
	}

	accuracy := 0
	weightedAccuracy := 0.0
	if in.WeightedAttempts > 0 {
		weightedAccuracy = in.WeightedCorrect / in.WeightedAttempts
		accuracy = capComponent(int(math.Round(weightedAccuracy * componentCap)))
	}
	score.Breakdown.Accuracy = ScoreComponent{
		Score:  accuracy,
		Detail: fmt.Sprintf("%.0f%% difficulty-weighted accuracy", weightedAccuracy*100),
	}

	consistency := capComponent(int(math.Round(float64(in.StudyDaysLast30) / consistencyDaysCap * componentCap)))
	score.Breakdown.Consistency = ScoreComponent{
		Score:  consistency,
		Detail: fmt.Sprintf("studied on %d of the last 30 days", in.StudyDaysLast30),
	}

	spread := capComponent(in.DistinctDifficulties * pointsPerDifficulty)
	score.Breakdown.DifficultySpread = ScoreComponent{
		Score:  spread,
		Detail: fmt.Sprintf("%d of 5 difficulty levels attempted", in.DistinctDifficulties),
	}

	retention := 0
	if in.TotalCases > 0 {
		retention = capComponent(int(math.Round(float64(in.MasteredCases) / float64(in.TotalCases) * componentCap)))
	}
	score.Breakdown.Retention = ScoreComponent{
		Score:  retention,
		Detail: fmt.Sprintf("%d of %d cases mastered", in.MasteredCases, in.TotalCases),
	}

	score.Total = coverage + accuracy + consistency + spread + retention
	return score
}

func capComponent(v int) int {
	if v > componentCap {
		return componentCap
	}
	if v < 0 {
		return 0
	}
	return v
}
