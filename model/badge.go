package model

import "time"

type Badge struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Category    string    `json:"category" gorm:"index;not null"`
	Threshold   int       `json:"threshold" gorm:"not null"`
	XPReward    int       `json:"xp_reward" gorm:"not null"`
	BadgeURL    string    `json:"badge_url"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
}

type UserBadge struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_badge_user_badge"`
	BadgeID    string    `json:"badge_id" gorm:"not null;uniqueIndex:idx_user_badge_user_badge"`
	Badge      Badge     `json:"badge" gorm:"foreignKey:BadgeID"`
	UnlockedAt time.Time `json:"unlocked_at" gorm:"not null"`
}
