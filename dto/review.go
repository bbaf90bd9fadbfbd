package dto

type DueForReviewResponse struct {
	DueCases []CaseResponse `json:"due_cases"`
	NewCases []CaseResponse `json:"new_cases"`
	TotalDue int            `json:"total_due"`
	TotalNew int            `json:"total_new"`
}

type DayActivity struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Attempts int    `json:"attempts"`
}

type ProgressSummaryResponse struct {
	TotalAttempts int           `json:"total_attempts"`
	CorrectCount  int           `json:"correct_count"`
	Accuracy      float64       `json:"accuracy"`
	UniqueCases   int           `json:"unique_cases"`
	MasteredCases int           `json:"mastered_cases"`
	LearningCases int           `json:"learning_cases"`
	StreakData    []DayActivity `json:"streak_data"`
}
