package seeders

import (
	"log"

	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/shared"
	"gorm.io/gorm"
)

// BadgeSeeder handles seeding the badge catalog
type BadgeSeeder struct {
	db *gorm.DB
}

func NewBadgeSeeder(db *gorm.DB) *BadgeSeeder {
	return &BadgeSeeder{db: db}
}

// SeedBadges seeds the unlockable badge definitions
func (s *BadgeSeeder) SeedBadges() error {
	badges := s.getBadges()

	for _, badge := range badges {
		var existing model.Badge
		if err := s.db.Where("id = ?", badge.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&badge).Error; err != nil {
					log.Printf("Error creating badge %s: %v", badge.Name, err)
					return err
				}
				log.Printf("Created badge: %s", badge.Name)
			} else {
				log.Printf("Error checking badge %s: %v", badge.Name, err)
				return err
			}
		} else {
			log.Printf("Badge %s already exists, skipping", badge.Name)
		}
	}

	return nil
}

func (s *BadgeSeeder) getBadges() []model.Badge {
	return []model.Badge{
		{
			ID:          "badge-streak-3",
			Name:        "Warming Up",
			Description: "Study three days in a row",
			Category:    shared.BadgeCategoryStreak,
			Threshold:   3,
			XPReward:    25,
			IsActive:    true,
		},
		{
			ID:          "badge-streak-7",
			Name:        "Week One",
			Description: "Study seven days in a row",
			Category:    shared.BadgeCategoryStreak,
			Threshold:   7,
			XPReward:    75,
			IsActive:    true,
		},
		{
			ID:          "badge-streak-30",
			Name:        "Resident Rhythm",
			Description: "Study thirty days in a row",
			Category:    shared.BadgeCategoryStreak,
			Threshold:   30,
			XPReward:    300,
			IsActive:    true,
		},
		{
			ID:          "badge-volume-50",
			Name:        "Case Browser",
			Description: "Answer 50 cases",
			Category:    shared.BadgeCategoryVolume,
			Threshold:   50,
			XPReward:    50,
			IsActive:    true,
		},
		{
			ID:          "badge-volume-500",
			Name:        "Case Grinder",
			Description: "Answer 500 cases",
			Category:    shared.BadgeCategoryVolume,
			Threshold:   500,
			XPReward:    250,
			IsActive:    true,
		},
		{
			ID:          "badge-accuracy-80",
			Name:        "Sharp Eye",
			Description: "Finish a session at 80% accuracy or better",
			Category:    shared.BadgeCategoryAccuracy,
			Threshold:   80,
			XPReward:    40,
			IsActive:    true,
		},
		{
			ID:          "badge-accuracy-100",
			Name:        "Clean Read",
			Description: "Finish a session with every answer correct",
			Category:    shared.BadgeCategoryAccuracy,
			Threshold:   100,
			XPReward:    100,
			IsActive:    true,
		},
		{
			ID:          "badge-milestone-10",
			Name:        "Committed to Memory",
			Description: "Master 10 cases",
			Category:    shared.BadgeCategoryMilestone,
			Threshold:   10,
			XPReward:    100,
			IsActive:    true,
		},
		{
			ID:          "badge-milestone-50",
			Name:        "Board Ready",
			Description: "Master 50 cases",
			Category:    shared.BadgeCategoryMilestone,
			Threshold:   50,
			XPReward:    500,
			IsActive:    true,
		},
	}
}
