package model

import (
	"encoding/json"
	"time"
)

// CardRef is an immutable value. Sessions serialize their card list once at
// start so replay and missed-question review are reproducible from the
// stored session alone.
type CardRef struct {
	CaseID             string   `json:"case_id"`
	Title              string   `json:"title"`
	ImageURL           string   `json:"image_url"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	Explanation        string   `json:"explanation"`
	Difficulty         int      `json:"difficulty"`
	Specialty          string   `json:"specialty"`
}

type AnswerRecord struct {
	CaseID      string    `json:"case_id"`
	AnswerIndex int       `json:"answer_index"`
	CorrectIndex int      `json:"correct_index"`
	Correct     bool      `json:"correct"`
	TimeSpentMs int       `json:"time_spent_ms"`
	AnsweredAt  time.Time `json:"answered_at"`
}

type QuizSession struct {
	ID             string          `json:"id" gorm:"primaryKey"`
	UserID         string          `json:"user_id" gorm:"index"`
	Mode           string          `json:"mode" gorm:"not null"`
	State          string          `json:"state" gorm:"not null"`
	StartedAt      time.Time       `json:"started_at" gorm:"not null"`
	CompletedAt    *time.Time      `json:"completed_at"`
	Cards          json.RawMessage `json:"cards" gorm:"not null"`
	CurrentIndex   int             `json:"current_index" gorm:"not null"`
	CorrectCount   int             `json:"correct_count" gorm:"not null"`
	XPEarned       int             `json:"xp_earned" gorm:"not null"`
	Answers        json.RawMessage `json:"answers" gorm:"not null"`
	PlanID         *string         `json:"plan_id"`
	MilestoneIndex *int            `json:"milestone_index"`
	Finalized      bool            `json:"finalized" gorm:"not null;default:false"`
	CreatedAt      time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"not null"`
}

func (s *QuizSession) CardRefs() ([]CardRef, error) {
	var cards []CardRef
	if err := json.Unmarshal(s.Cards, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *QuizSession) AnswerRecords() ([]AnswerRecord, error) {
	var answers []AnswerRecord
	if len(s.Answers) == 0 {
		return []AnswerRecord{}, nil
	}
	if err := json.Unmarshal(s.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// ActiveSessionSnapshot holds at most one resumable client snapshot per
// user. Writes are last-writer-wins; concurrent devices overwrite each
// other. Expiry is lazy: a read past the TTL deletes the row.
type ActiveSessionSnapshot struct {
	UserID          string          `json:"user_id" gorm:"primaryKey"`
	SerializedState json.RawMessage `json:"serialized_state" gorm:"not null"`
	DeviceID        string          `json:"device_id" gorm:"not null"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null"`
}
