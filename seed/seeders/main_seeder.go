package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder orchestrates all seeding operations
type MainSeeder struct {
	db          *gorm.DB
	caseSeeder  *CaseSeeder
	badgeSeeder *BadgeSeeder
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{
		db:          db,
		caseSeeder:  NewCaseSeeder(db),
		badgeSeeder: NewBadgeSeeder(db),
	}
}

// SeedAll runs every seeder
func (s *MainSeeder) SeedAll() error {
	log.Println("Seeding cases...")
	if err := s.caseSeeder.SeedCases(); err != nil {
		return err
	}

	log.Println("Seeding badges...")
	if err := s.badgeSeeder.SeedBadges(); err != nil {
		return err
	}

	return nil
}

// SeedCasesOnly seeds the case library only
func (s *MainSeeder) SeedCasesOnly() error {
	return s.caseSeeder.SeedCases()
}

// SeedBadgesOnly seeds badge definitions only
func (s *MainSeeder) SeedBadgesOnly() error {
	return s.badgeSeeder.SeedBadges()
}
