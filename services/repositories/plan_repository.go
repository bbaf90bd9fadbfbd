package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/radmastery/radprep_api/model"
	"gorm.io/gorm"
)

type PlanRepository struct {
	BaseRepository
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *PlanRepository) CreatePlan(plan *model.StudyPlan) (*model.StudyPlan, error) {
	id, _ := uuid.NewV7()
	plan.ID = id.String()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()

	for i := range plan.Milestones {
		mid, _ := uuid.NewV7()
		plan.Milestones[i].ID = mid.String()
		plan.Milestones[i].PlanID = plan.ID
		plan.Milestones[i].CreatedAt = time.Now()
		plan.Milestones[i].UpdatedAt = time.Now()
	}

	if err := ds.db.Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

func (ds *PlanRepository) GetPlan(planID string) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	err := ds.db.Preload("Milestones", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id = ?", planID).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (ds *PlanRepository) GetMilestone(planID string, position int) (*model.StudyPlanMilestone, error) {
	var milestone model.StudyPlanMilestone
	err := ds.db.Where("plan_id = ? AND position = ?", planID, position).
		First(&milestone).Error
	if err != nil {
		return nil, err
	}
	return &milestone, nil
}

func (ds *PlanRepository) UpdateMilestone(milestone *model.StudyPlanMilestone) error {
	milestone.UpdatedAt = time.Now()
	return ds.db.Save(milestone).Error
}

func (ds *PlanRepository) UpdatePlan(plan *model.StudyPlan) error {
	plan.UpdatedAt = time.Now()
	return ds.db.Omit("Milestones").Save(plan).Error
}
