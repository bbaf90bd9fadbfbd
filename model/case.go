package model

import (
	"encoding/json"
	"time"
)

type Case struct {
	ID         string `json:"id" gorm:"primaryKey"`
	Title      string `json:"title" gorm:"not null"`
	Specialty  string `json:"specialty" gorm:"index;not null"`
	Modality   string `json:"modality" gorm:"index;not null"`
	BodyPart   string `json:"body_part" gorm:"index;not null"`
	Difficulty int    `json:"difficulty" gorm:"not null"` // 1-5
	Diagnosis  string `json:"diagnosis" gorm:"not null"`
	ImageURL   string `json:"image_url"`

	// Pre-authored MCQ content. Cases without options go through the
	// MCQ builder at session start.
	Question     string          `json:"question"`
	Options      json.RawMessage `json:"options"`
	CorrectIndex int             `json:"correct_index"`
	Explanation  string          `json:"explanation"`

	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}
