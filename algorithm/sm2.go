// Package algorithm holds the pure scheduling and scoring math. Nothing in
// here touches storage; services feed state in and persist what comes back.
package algorithm

import "math"

const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
	InitialInterval   = 1

	// Binary outcomes map onto the 0-5 SM-2 quality scale with two fixed
	// grades. Timing and partial credit deliberately do not feed the grade.
	GradeCorrect   = 4
	GradeIncorrect = 1

	passingGrade = 3
)

// ReviewState is the scheduling slice of a case's progress row.
type ReviewState struct {
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
}

// NewReviewState seeds the state used for a first-ever attempt on a case.
func NewReviewState() ReviewState {
	return ReviewState{
		EaseFactor:   InitialEaseFactor,
		IntervalDays: InitialInterval,
		Repetitions:  0,
	}
}

// GradeFor maps a recall outcome to its SM-2 grade.
func GradeFor(correct bool) int {
	if correct {
		return GradeCorrect
	}
	return GradeIncorrect
}

// Apply runs one SM-2 update. The next interval is computed with the ease
// factor as it was before this review; the ease factor is then adjusted and
// floored at MinEaseFactor. An incorrect answer resets repetitions and the
// interval regardless of prior streak length.
func (s ReviewState) Apply(correct bool) ReviewState {
	grade := GradeFor(correct)

	next := s
	if grade >= passingGrade {
		switch s.Repetitions {
		case 0:
			next.IntervalDays = 1
		case 1:
			next.IntervalDays = 6
		default:
			next.IntervalDays = int(math.Round(float64(s.IntervalDays) * s.EaseFactor))
		}
		next.Repetitions = s.Repetitions + 1
	} else {
		next.Repetitions = 0
		next.IntervalDays = 1
	}

	q := float64(grade)
	ef := s.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	next.EaseFactor = ef

	return next
}
