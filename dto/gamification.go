package dto

import "time"

type BadgeResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	XPReward    int        `json:"xp_reward"`
	BadgeURL    string     `json:"badge_url"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

type AnswerReward struct {
	XPEarned  int             `json:"xp_earned"`
	LevelUp   bool            `json:"level_up"`
	NewBadges []BadgeResponse `json:"new_badges"`
}

type SessionReward struct {
	BonusXP   int             `json:"bonus_xp"`
	NewBadges []BadgeResponse `json:"new_badges"`
}
