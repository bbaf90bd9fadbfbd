package repositories

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/radmastery/radprep_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository handles quiz sessions, the per-user resumable snapshot,
// and daily-challenge completion marks.
type SessionRepository struct {
	BaseRepository
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *SessionRepository) CreateQuizSession(session *model.QuizSession) (*model.QuizSession, error) {
	id, _ := uuid.NewV7()
	session.ID = id.String()
	if err := ds.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (ds *SessionRepository) GetQuizSession(id string) (*model.QuizSession, error) {
	var session model.QuizSession
	if err := ds.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (ds *SessionRepository) UpdateQuizSession(session *model.QuizSession) error {
	session.UpdatedAt = time.Now()
	return ds.db.Save(session).Error
}

// PutActiveSnapshot overwrites the user's single snapshot row,
// last-writer-wins. Two devices writing concurrently silently replace each
// other; there is no merge.
func (ds *SessionRepository) PutActiveSnapshot(userID string, state json.RawMessage, deviceID string) error {
	snapshot := model.ActiveSessionSnapshot{
		UserID:          userID,
		SerializedState: state,
		DeviceID:        deviceID,
		UpdatedAt:       time.Now(),
	}
	return ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&snapshot).Error
}

func (ds *SessionRepository) GetActiveSnapshot(userID string) (*model.ActiveSessionSnapshot, error) {
	var snapshot model.ActiveSessionSnapshot
	if err := ds.db.Where("user_id = ?", userID).First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (ds *SessionRepository) DeleteActiveSnapshot(userID string) error {
	return ds.db.Where("user_id = ?", userID).Delete(&model.ActiveSessionSnapshot{}).Error
}

// CreateDailyCompletion inserts the completion mark for the day and reports
// whether this call created it. The unique (user_id, challenge_date) index
// plus DO NOTHING makes concurrent double submission award at most one
// reward.
func (ds *SessionRepository) CreateDailyCompletion(completion *model.DailyCompletion) (bool, error) {
	id, _ := uuid.NewV7()
	completion.ID = id.String()
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = time.Now()
	}

	result := ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "challenge_date"}},
		DoNothing: true,
	}).Create(completion)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (ds *SessionRepository) GetDailyCompletion(userID, challengeDate string) (*model.DailyCompletion, error) {
	var completion model.DailyCompletion
	err := ds.db.Where("user_id = ? AND challenge_date = ?", userID, challengeDate).
		First(&completion).Error
	if err != nil {
		return nil, err
	}
	return &completion, nil
}
