package model

import (
	"encoding/json"
	"time"
)

type StudyPlan struct {
	ID             string               `json:"id" gorm:"primaryKey"`
	UserID         string               `json:"user_id" gorm:"index;not null"`
	Name           string               `json:"name" gorm:"not null"`
	Specialty      string               `json:"specialty"`
	MilestoneIndex int                  `json:"milestone_index" gorm:"not null"`
	Milestones     []StudyPlanMilestone `json:"milestones" gorm:"foreignKey:PlanID"`
	CreatedAt      time.Time            `json:"created_at" gorm:"not null"`
	UpdatedAt      time.Time            `json:"updated_at" gorm:"not null"`
}

type StudyPlanMilestone struct {
	ID             string          `json:"id" gorm:"primaryKey"`
	PlanID         string          `json:"plan_id" gorm:"index;not null"`
	Position       int             `json:"position" gorm:"not null"`
	Title          string          `json:"title"`
	CaseIDs        json.RawMessage `json:"case_ids" gorm:"not null"`
	CompletedCount int             `json:"completed_count" gorm:"not null"`
	CreatedAt      time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"not null"`
}
