package dto

import (
	"encoding/json"
	"time"
)

type StartSessionRequest struct {
	Mode   string `json:"mode" validate:"required,oneof=quick daily review plan weakness"`
	PlanID string `json:"plan_id"`
	Limit  int    `json:"limit" validate:"gte=0,lte=50"`

	// Quick-mode catalog filter, ignored by other modes.
	Specialty  string `json:"specialty"`
	Modality   string `json:"modality"`
	BodyPart   string `json:"body_part"`
	Difficulty int    `json:"difficulty" validate:"gte=0,lte=5"`
}

func (r StartSessionRequest) Validate() error {
	return GetValidator().Struct(r)
}

// SessionCard is the client-facing card shape. The correct index and
// explanation are withheld until the card is answered.
type SessionCard struct {
	CaseID     string   `json:"case_id"`
	Title      string   `json:"title"`
	ImageURL   string   `json:"image_url"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Difficulty int      `json:"difficulty"`
	Specialty  string   `json:"specialty"`
}

type StartSessionResponse struct {
	SessionID string        `json:"session_id"`
	Mode      string        `json:"mode"`
	Cards     []SessionCard `json:"cards"`
}

type SubmitAnswerRequest struct {
	AnswerIndex *int `json:"answer_index" validate:"required,gte=0"`
	TimeSpentMs int  `json:"time_spent_ms" validate:"gte=0"`

	// Optional replay guard. When set, the answer only applies if it
	// targets the session's current card.
	CardIndex *int `json:"card_index" validate:"omitempty,gte=0"`
}

func (r SubmitAnswerRequest) Validate() error {
	return GetValidator().Struct(r)
}

type SubmitAnswerResponse struct {
	Correct      bool            `json:"correct"`
	CorrectIndex int             `json:"correct_index"`
	Explanation  string          `json:"explanation"`
	XPEarned     int             `json:"xp_earned"`
	LevelUp      bool            `json:"level_up,omitempty"`
	NewBadges    []BadgeResponse `json:"new_badges,omitempty"`
}

type MissedAnswer struct {
	CaseID       string `json:"case_id"`
	Title        string `json:"title"`
	AnswerIndex  int    `json:"answer_index"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation"`
}

type SessionSummary struct {
	SessionID     string         `json:"session_id"`
	Mode          string         `json:"mode"`
	TotalCards    int            `json:"total_cards"`
	Answered      int            `json:"answered"`
	CorrectCount  int            `json:"correct_count"`
	Accuracy      float64        `json:"accuracy"`
	XPEarned      int            `json:"xp_earned"`
	DurationMs    int64          `json:"duration_ms"`
	MissedAnswers []MissedAnswer `json:"missed_answers"`
}

type CompleteSessionResponse struct {
	BonusXP   int             `json:"bonus_xp,omitempty"`
	NewBadges []BadgeResponse `json:"new_badges,omitempty"`
	Summary   SessionSummary  `json:"summary"`
}

type PutActiveSessionRequest struct {
	State    json.RawMessage `json:"state" validate:"required"`
	DeviceID string          `json:"device_id" validate:"required,min=1,max=100"`
}

func (r PutActiveSessionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ActiveSessionResponse struct {
	State     json.RawMessage `json:"state"`
	DeviceID  string          `json:"device_id"`
	UpdatedAt time.Time       `json:"updated_at"`
}
