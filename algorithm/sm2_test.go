package algorithm

import (
	"math"
	"testing"
)

func TestApplyFirstCorrect(t *testing.T) {
	next := NewReviewState().Apply(true)

	if next.Repetitions != 1 {
		t.Errorf("Repetitions = %d, want 1", next.Repetitions)
	}
	if next.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", next.IntervalDays)
	}
	if next.EaseFactor != InitialEaseFactor {
		t.Errorf("EaseFactor = %v, want %v (grade 4 leaves ease unchanged)", next.EaseFactor, InitialEaseFactor)
	}
}

func TestApplyCorrectStreak(t *testing.T) {
	// Starting from defaults, three consecutive correct answers walk the
	// interval through 1, 6, 15 (6 * 2.5) with repetitions 1, 2, 3.
	state := NewReviewState()

	wantIntervals := []int{1, 6, 15}
	for i, want := range wantIntervals {
		state = state.Apply(true)
		if state.IntervalDays != want {
			t.Fatalf("review %d: IntervalDays = %d, want %d", i+1, state.IntervalDays, want)
		}
		if state.Repetitions != i+1 {
			t.Fatalf("review %d: Repetitions = %d, want %d", i+1, state.Repetitions, i+1)
		}
	}
}

func TestApplyIncorrectResets(t *testing.T) {
	state := ReviewState{EaseFactor: 2.5, IntervalDays: 40, Repetitions: 5}

	next := state.Apply(false)

	if next.Repetitions != 0 {
		t.Errorf("Repetitions = %d, want 0", next.Repetitions)
	}
	if next.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", next.IntervalDays)
	}
	// 2.5 + (0.1 - 4*(0.08 + 4*0.02)) = 1.96
	if math.Abs(next.EaseFactor-1.96) > 1e-9 {
		t.Errorf("EaseFactor = %v, want 1.96", next.EaseFactor)
	}
}

func TestApplyIncorrectRegardlessOfStreak(t *testing.T) {
	tests := []struct {
		name  string
		state ReviewState
	}{
		{"fresh", NewReviewState()},
		{"short streak", ReviewState{EaseFactor: 2.5, IntervalDays: 6, Repetitions: 2}},
		{"long streak", ReviewState{EaseFactor: 2.8, IntervalDays: 120, Repetitions: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := tt.state.Apply(false)
			if next.Repetitions != 0 || next.IntervalDays != 1 {
				t.Errorf("Apply(false) = {reps %d, interval %d}, want reset to {0, 1}", next.Repetitions, next.IntervalDays)
			}
		})
	}
}

func TestEaseFactorFloor(t *testing.T) {
	state := NewReviewState()

	for i := 0; i < 20; i++ {
		state = state.Apply(false)
		if state.EaseFactor < MinEaseFactor {
			t.Fatalf("after %d failures EaseFactor = %v, below floor %v", i+1, state.EaseFactor, MinEaseFactor)
		}
	}
	if state.EaseFactor != MinEaseFactor {
		t.Errorf("EaseFactor = %v, want pinned at %v", state.EaseFactor, MinEaseFactor)
	}
}

func TestIntervalUsesPreUpdateEase(t *testing.T) {
	// The interval for a third-or-later repetition multiplies by the ease
	// factor as it stood before this review's adjustment.
	state := ReviewState{EaseFactor: 2.0, IntervalDays: 10, Repetitions: 3}

	next := state.Apply(true)

	if next.IntervalDays != 20 {
		t.Errorf("IntervalDays = %d, want 20 (10 * 2.0)", next.IntervalDays)
	}
}

func TestGradeFor(t *testing.T) {
	if got := GradeFor(true); got != GradeCorrect {
		t.Errorf("GradeFor(true) = %d, want %d", got, GradeCorrect)
	}
	if got := GradeFor(false); got != GradeIncorrect {
		t.Errorf("GradeFor(false) = %d, want %d", got, GradeIncorrect)
	}
}
