package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/radmastery/radprep_api/model"
	"gorm.io/gorm"
)

// CatalogRepository handles case catalog reads and seeding.
type CatalogRepository struct {
	BaseRepository
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

type CaseFilter struct {
	Specialty  string
	Modality   string
	BodyPart   string
	Difficulty int
	Limit      int
}

func (ds *CatalogRepository) filtered(filter CaseFilter) *gorm.DB {
	query := ds.db.Model(&model.Case{}).Where("is_active = ?", true)

	if filter.Specialty != "" {
		query = query.Where("specialty = ?", filter.Specialty)
	}
	if filter.Modality != "" {
		query = query.Where("modality = ?", filter.Modality)
	}
	if filter.BodyPart != "" {
		query = query.Where("body_part = ?", filter.BodyPart)
	}
	if filter.Difficulty > 0 {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	return query
}

func (ds *CatalogRepository) GetCase(id string) (*model.Case, error) {
	var c model.Case
	if err := ds.db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (ds *CatalogRepository) GetCases(ids []string) ([]model.Case, error) {
	var cases []model.Case
	if len(ids) == 0 {
		return cases, nil
	}
	if err := ds.db.Where("id IN ?", ids).Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (ds *CatalogRepository) ListCases(filter CaseFilter) ([]model.Case, error) {
	var cases []model.Case
	query := ds.filtered(filter).Order("title ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

// RandomCases samples up to limit cases matching the filter. RANDOM() is
// understood by both sqlite and postgres.
func (ds *CatalogRepository) RandomCases(filter CaseFilter, limit int) ([]model.Case, error) {
	var cases []model.Case
	if err := ds.filtered(filter).Order("RANDOM()").Limit(limit).Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (ds *CatalogRepository) CountCases() (int64, error) {
	var count int64
	if err := ds.db.Model(&model.Case{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DistinctComboCount counts distinct (body_part, modality) pairs across the
// active catalog.
func (ds *CatalogRepository) DistinctComboCount() (int64, error) {
	var count int64
	err := ds.db.Model(&model.Case{}).
		Where("is_active = ?", true).
		Select("COUNT(DISTINCT body_part || '|' || modality)").
		Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ActiveCaseIDs returns all active case ids in a stable order, used for the
// deterministic daily-challenge pick.
func (ds *CatalogRepository) ActiveCaseIDs() ([]string, error) {
	var ids []string
	err := ds.db.Model(&model.Case{}).
		Where("is_active = ?", true).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (ds *CatalogRepository) CreateCase(c *model.Case) (*model.Case, error) {
	if c.ID == "" {
		id, _ := uuid.NewV7()
		c.ID = id.String()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	if err := ds.db.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}
