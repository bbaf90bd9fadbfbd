package dto

type CreatePlanRequest struct {
	Name              string `json:"name" validate:"required,min=1,max=120"`
	Specialty         string `json:"specialty"`
	CasesPerMilestone int    `json:"cases_per_milestone" validate:"gte=0,lte=20"`
	MilestoneCount    int    `json:"milestone_count" validate:"gte=0,lte=50"`
}

func (r CreatePlanRequest) Validate() error {
	return GetValidator().Struct(r)
}

type PlanResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialty      string `json:"specialty"`
	MilestoneIndex int    `json:"milestone_index"`
	MilestoneCount int    `json:"milestone_count"`
}

type PlanMilestoneResponse struct {
	MilestoneIndex int            `json:"milestone_index"`
	Title          string         `json:"title"`
	Cases          []CaseResponse `json:"cases"`
	Completed      bool           `json:"completed"`
}
