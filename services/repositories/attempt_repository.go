package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/radmastery/radprep_api/model"
	"gorm.io/gorm"
)

// AttemptRepository appends to and aggregates over the attempts log. The
// log is never updated or deleted from here.
type AttemptRepository struct {
	BaseRepository
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *AttemptRepository) CreateAttempt(attempt *model.Attempt) error {
	id, _ := uuid.NewV7()
	attempt.ID = id.String()
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = time.Now()
	}
	return ds.db.Create(attempt).Error
}

func (ds *AttemptRepository) CountAttempts(userID string) (total int64, correct int64, err error) {
	if err = ds.db.Model(&model.Attempt{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = ds.db.Model(&model.Attempt{}).
		Where("user_id = ? AND correct = ?", userID, true).
		Count(&correct).Error; err != nil {
		return 0, 0, err
	}
	return total, correct, nil
}

func (ds *AttemptRepository) CountUniqueCases(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.Attempt{}).
		Where("user_id = ?", userID).
		Select("COUNT(DISTINCT case_id)").
		Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// WeakCaseStat is a per-case accuracy aggregate.
type WeakCaseStat struct {
	CaseID   string
	Attempts int
	Correct  int
}

// WeakestCases returns cases with at least two attempts, worst accuracy
// first, ties broken toward the more-attempted case.
func (ds *AttemptRepository) WeakestCases(userID string, topN int) ([]WeakCaseStat, error) {
	var stats []WeakCaseStat
	err := ds.db.Model(&model.Attempt{}).
		Select("case_id, COUNT(*) AS attempts, SUM(CASE WHEN correct THEN 1 ELSE 0 END) AS correct").
		Where("user_id = ?", userID).
		Group("case_id").
		Having("COUNT(*) >= ?", 2).
		Order("(1.0 * SUM(CASE WHEN correct THEN 1 ELSE 0 END)) / COUNT(*) ASC, COUNT(*) DESC").
		Limit(topN).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// GetAttemptsSince returns the user's attempts after the cutoff, oldest
// first. Day bucketing happens in Go so the query stays portable across
// sqlite and postgres.
func (ds *AttemptRepository) GetAttemptsSince(userID string, since time.Time) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := ds.db.Where("user_id = ? AND attempted_at >= ?", userID, since).
		Order("attempted_at ASC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (ds *AttemptRepository) DistinctDifficultiesAttempted(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.Attempt{}).
		Joins("JOIN cases ON cases.id = attempts.case_id").
		Where("attempts.user_id = ?", userID).
		Select("COUNT(DISTINCT cases.difficulty)").
		Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (ds *AttemptRepository) DistinctCombosAttempted(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.Attempt{}).
		Joins("JOIN cases ON cases.id = attempts.case_id").
		Where("attempts.user_id = ?", userID).
		Select("COUNT(DISTINCT cases.body_part || '|' || cases.modality)").
		Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// WeightedAccuracySums returns the difficulty-weighted numerator and
// denominator of the accuracy readiness component, weight_d = difficulty/3.
func (ds *AttemptRepository) WeightedAccuracySums(userID string) (correct float64, attempts float64, err error) {
	var row struct {
		Correct  float64
		Attempts float64
	}
	err = ds.db.Model(&model.Attempt{}).
		Joins("JOIN cases ON cases.id = attempts.case_id").
		Where("attempts.user_id = ?", userID).
		Select("COALESCE(SUM(CASE WHEN attempts.correct THEN cases.difficulty / 3.0 ELSE 0 END), 0) AS correct, " +
			"COALESCE(SUM(cases.difficulty / 3.0), 0) AS attempts").
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Correct, row.Attempts, nil
}
