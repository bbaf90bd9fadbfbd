package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/radmastery/radprep_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GamificationRepository struct {
	BaseRepository
}

func NewGamificationRepository(db *gorm.DB) *GamificationRepository {
	return &GamificationRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *GamificationRepository) GetOrCreateUserStats(userID string) (*model.UserStats, error) {
	var stats model.UserStats
	err := ds.db.Where("user_id = ?", userID).First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, _ := uuid.NewV7()
	stats = model.UserStats{
		ID:        id.String(),
		UserID:    userID,
		XP:        0,
		Level:     1,
		Streak:    0,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&stats).Error; err != nil {
		return nil, err
	}

	// Re-read in case a concurrent request created the row first.
	if err := ds.db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (ds *GamificationRepository) UpdateUserStats(stats *model.UserStats) error {
	stats.UpdatedAt = time.Now()
	return ds.db.Save(stats).Error
}

func (ds *GamificationRepository) GetActiveBadges() ([]model.Badge, error) {
	var badges []model.Badge
	if err := ds.db.Where("is_active = ?", true).Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (ds *GamificationRepository) GetUserBadges(userID string) ([]model.UserBadge, error) {
	var userBadges []model.UserBadge
	err := ds.db.Preload("Badge").Where("user_id = ?", userID).
		Order("unlocked_at DESC").Find(&userBadges).Error
	if err != nil {
		return nil, err
	}
	return userBadges, nil
}

// AwardBadge inserts the unlock row; the unique (user_id, badge_id) index
// makes repeat awards no-ops. Reports whether the badge was newly unlocked.
func (ds *GamificationRepository) AwardBadge(userID, badgeID string) (bool, error) {
	id, _ := uuid.NewV7()
	userBadge := model.UserBadge{
		ID:         id.String(),
		UserID:     userID,
		BadgeID:    badgeID,
		UnlockedAt: time.Now(),
	}
	result := ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&userBadge)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (ds *GamificationRepository) CreateBadge(badge *model.Badge) (*model.Badge, error) {
	if badge.ID == "" {
		id, _ := uuid.NewV7()
		badge.ID = id.String()
	}
	badge.CreatedAt = time.Now()

	if err := ds.db.Clauses(clause.OnConflict{DoNothing: true}).Create(badge).Error; err != nil {
		return nil, err
	}
	return badge, nil
}
