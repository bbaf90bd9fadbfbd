package dto

type RecordAttemptRequest struct {
	CaseID       string `json:"case_id" validate:"required"`
	Correct      *bool  `json:"correct" validate:"required"`
	TimeSpentMs  int    `json:"time_spent_ms" validate:"gte=0"`
	SessionID    string `json:"session_id"`
	AnswerIndex  int    `json:"answer_index" validate:"gte=-1"`
	CorrectIndex int    `json:"correct_index" validate:"gte=-1"`
}

func (r RecordAttemptRequest) Validate() error {
	return GetValidator().Struct(r)
}

type RecordAttemptResponse struct {
	Success   bool            `json:"success"`
	XPEarned  int             `json:"xp_earned,omitempty"`
	LevelUp   bool            `json:"level_up,omitempty"`
	NewBadges []BadgeResponse `json:"new_badges,omitempty"`
}
