package model

import "time"

// CaseProgress is the per (user, case) spaced-repetition state. One row per
// pair, mutated only through the retention service's atomic upsert.
type CaseProgress struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"not null;uniqueIndex:idx_case_progress_user_case"`
	CaseID         string    `json:"case_id" gorm:"not null;uniqueIndex:idx_case_progress_user_case"`
	EaseFactor     float64   `json:"ease_factor" gorm:"not null"`
	IntervalDays   int       `json:"interval_days" gorm:"not null"`
	Repetitions    int       `json:"repetitions" gorm:"not null"`
	NextReviewDate time.Time `json:"next_review_date" gorm:"not null;index"`
	LastReviewedAt time.Time `json:"last_reviewed_at" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"not null"`
}

// Attempt is append-only and never mutated. It is the source of truth for
// analytics; case progress can always be rebuilt by replaying attempts.
type Attempt struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       *string   `json:"user_id" gorm:"index"` // nil for guests
	CaseID       string    `json:"case_id" gorm:"index;not null"`
	Correct      bool      `json:"correct" gorm:"not null"`
	TimeSpentMs  int       `json:"time_spent_ms" gorm:"not null"`
	SessionID    *string   `json:"session_id" gorm:"index"`
	AnswerIndex  int       `json:"answer_index"`
	CorrectIndex int       `json:"correct_index"`
	AttemptedAt  time.Time `json:"attempted_at" gorm:"not null;index"`
}

// DailyCompletion records that a user finished the daily challenge. The
// unique (user_id, challenge_date) index is what makes double completion
// reward-idempotent under concurrent submissions.
type DailyCompletion struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"not null;uniqueIndex:idx_daily_completion_user_date"`
	ChallengeDate string    `json:"challenge_date" gorm:"not null;uniqueIndex:idx_daily_completion_user_date"` // YYYY-MM-DD
	SessionID     string    `json:"session_id"`
	CompletedAt   time.Time `json:"completed_at" gorm:"not null"`
}

type UserStats struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	UserID           string     `json:"user_id" gorm:"not null;uniqueIndex"`
	XP               int        `json:"xp" gorm:"not null"`
	Level            int        `json:"level" gorm:"not null"`
	Streak           int        `json:"streak" gorm:"not null"`
	LongestStreak    int        `json:"longest_streak" gorm:"not null"`
	LastActivityDate *time.Time `json:"last_activity_date"`
	CreatedAt        time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"not null"`
}
