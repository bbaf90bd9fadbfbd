package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/radmastery/radprep_api/algorithm"
	"github.com/radmastery/radprep_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository owns the case_progresses table, one row per
// (user, case) pair.
type ProgressRepository struct {
	BaseRepository
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *ProgressRepository) GetProgress(userID, caseID string) (*model.CaseProgress, error) {
	var progress model.CaseProgress
	if err := ds.db.Where("user_id = ? AND case_id = ?", userID, caseID).First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpsertProgress writes the row atomically keyed on (user_id, case_id).
// ON CONFLICT update prevents lost updates from concurrent answers on the
// same case, e.g. multi-tab use.
func (ds *ProgressRepository) UpsertProgress(progress *model.CaseProgress) error {
	if progress.ID == "" {
		id, _ := uuid.NewV7()
		progress.ID = id.String()
		progress.CreatedAt = time.Now()
	}
	progress.UpdatedAt = time.Now()

	return ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "case_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ease_factor", "interval_days", "repetitions",
			"next_review_date", "last_reviewed_at", "updated_at",
		}),
	}).Create(progress).Error
}

// GetDueProgress returns progress rows scheduled on or before the cutoff,
// oldest due date first.
func (ds *ProgressRepository) GetDueProgress(userID string, cutoff time.Time, limit int) ([]model.CaseProgress, error) {
	var rows []model.CaseProgress
	query := ds.db.Where("user_id = ? AND next_review_date <= ?", userID, cutoff).
		Order("next_review_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (ds *ProgressRepository) CountDue(userID string, cutoff time.Time) (int64, error) {
	var count int64
	err := ds.db.Model(&model.CaseProgress{}).
		Where("user_id = ? AND next_review_date <= ?", userID, cutoff).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetNewCases returns active catalog cases the user has no progress row
// for. Selection order is arbitrary by contract, so a random sample is fine.
func (ds *ProgressRepository) GetNewCases(userID string, limit int) ([]model.Case, error) {
	var cases []model.Case
	query := ds.db.Model(&model.Case{}).
		Where("is_active = ?", true).
		Where("id NOT IN (?)", ds.db.Model(&model.CaseProgress{}).
			Select("case_id").Where("user_id = ?", userID)).
		Order("RANDOM()")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (ds *ProgressRepository) CountNewCases(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.Case{}).
		Where("is_active = ?", true).
		Where("id NOT IN (?)", ds.db.Model(&model.CaseProgress{}).
			Select("case_id").Where("user_id = ?", userID)).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (ds *ProgressRepository) CountProgressRows(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.CaseProgress{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (ds *ProgressRepository) CountMastered(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.CaseProgress{}).
		Where("user_id = ? AND repetitions >= ? AND interval_days >= ?",
			userID, algorithm.MasteredMinRepetitions, algorithm.MasteredMinIntervalDays).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
