package algorithm

import "testing"

func TestComputeReadinessCoverage(t *testing.T) {
	// 5 of 10 combos attempted scores half the coverage cap.
	in := ReadinessInput{AttemptedCombos: 5, TotalCombos: 10}

	score := ComputeReadiness(in)

	if score.Breakdown.Coverage.Score != 10 {
		t.Errorf("coverage = %d, want 10", score.Breakdown.Coverage.Score)
	}
}

func TestComputeReadinessBounds(t *testing.T) {
	tests := []struct {
		name string
		in   ReadinessInput
	}{
		{"empty", ReadinessInput{}},
		{"everything maxed", ReadinessInput{
			AttemptedCombos:      40,
			TotalCombos:          10,
			WeightedCorrect:      100,
			WeightedAttempts:     100,
			StudyDaysLast30:      30,
			DistinctDifficulties: 5,
			MasteredCases:        50,
			TotalCases:           10,
		}},
		{"partial", ReadinessInput{
			AttemptedCombos:      3,
			TotalCombos:          12,
			WeightedCorrect:      18,
			WeightedAttempts:     30,
			StudyDaysLast30:      7,
			DistinctDifficulties: 2,
			MasteredCases:        4,
			TotalCases:           40,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ComputeReadiness(tt.in)

			if score.Total < 0 || score.Total > 100 {
				t.Errorf("Total = %d, want within [0, 100]", score.Total)
			}
			components := []int{
				score.Breakdown.Coverage.Score,
				score.Breakdown.Accuracy.Score,
				score.Breakdown.Consistency.Score,
				score.Breakdown.DifficultySpread.Score,
				score.Breakdown.Retention.Score,
			}
			sum := 0
			for i, c := range components {
				if c < 0 || c > 20 {
					t.Errorf("component %d = %d, want within [0, 20]", i, c)
				}
				sum += c
			}
			if score.Total != sum {
				t.Errorf("Total = %d, want sum of components %d", score.Total, sum)
			}
		})
	}
}

func TestComputeReadinessAccuracy(t *testing.T) {
	in := ReadinessInput{WeightedCorrect: 15, WeightedAttempts: 20}

	score := ComputeReadiness(in)

	// 0.75 * 20 = 15
	if score.Breakdown.Accuracy.Score != 15 {
		t.Errorf("accuracy = %d, want 15", score.Breakdown.Accuracy.Score)
	}
}

func TestComputeReadinessConsistency(t *testing.T) {
	// 20 or more study days in the window saturates the component.
	for _, days := range []int{20, 25, 30} {
		score := ComputeReadiness(ReadinessInput{StudyDaysLast30: days})
		if score.Breakdown.Consistency.Score != 20 {
			t.Errorf("consistency(%d days) = %d, want 20", days, score.Breakdown.Consistency.Score)
		}
	}

	score := ComputeReadiness(ReadinessInput{StudyDaysLast30: 10})
	if score.Breakdown.Consistency.Score != 10 {
		t.Errorf("consistency(10 days) = %d, want 10", score.Breakdown.Consistency.Score)
	}
}

func TestComputeReadinessDifficultySpread(t *testing.T) {
	for levels := 0; levels <= 5; levels++ {
		score := ComputeReadiness(ReadinessInput{DistinctDifficulties: levels})
		if score.Breakdown.DifficultySpread.Score != levels*4 {
			t.Errorf("spread(%d levels) = %d, want %d", levels, score.Breakdown.DifficultySpread.Score, levels*4)
		}
	}
}

func TestIsMastered(t *testing.T) {
	tests := []struct {
		repetitions  int
		intervalDays int
		want         bool
	}{
		{3, 21, true},
		{5, 40, true},
		{2, 21, false},
		{3, 20, false},
		{0, 1, false},
	}

	for _, tt := range tests {
		if got := IsMastered(tt.repetitions, tt.intervalDays); got != tt.want {
			t.Errorf("IsMastered(%d, %d) = %v, want %v", tt.repetitions, tt.intervalDays, got, tt.want)
		}
	}
}
