package services

import (
	"errors"
	"fmt"

	"github.com/alphabatem/common/context"
	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/services/repositories"
	"github.com/radmastery/radprep_api/shared"
	"gorm.io/gorm"
)

// CatalogService is the case catalog collaborator: read-only queries over
// the radiology case library.
type CatalogService struct {
	context.DefaultService

	sqlSvc DatabaseService
}

const CATALOG_SVC = "catalog_svc"

func (svc CatalogService) Id() string {
	return CATALOG_SVC
}

func (svc *CatalogService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *CatalogService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(DatabaseService)
	return nil
}

func (svc *CatalogService) GetCase(caseID string) (*model.Case, error) {
	c, err := svc.sqlSvc.Catalog().GetCase(caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Case not found")
		}
		return nil, shared.NewPersistenceError(err, "Failed to load case")
	}
	return c, nil
}

func (svc *CatalogService) GetCaseResponse(caseID string) (*dto.CaseResponse, error) {
	c, err := svc.GetCase(caseID)
	if err != nil {
		return nil, err
	}
	resp := MapCaseToResponse(*c)
	return &resp, nil
}

// GetCasesOrdered hydrates the given ids, preserving their order. Missing
// ids are skipped rather than erroring; a catalog case can be retired while
// a reference to it survives in history.
func (svc *CatalogService) GetCasesOrdered(ids []string) ([]model.Case, error) {
	cases, err := svc.sqlSvc.Catalog().GetCases(ids)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to load cases")
	}

	byID := make(map[string]model.Case, len(cases))
	for _, c := range cases {
		byID[c.ID] = c
	}

	ordered := make([]model.Case, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func (svc *CatalogService) ListCases(req dto.CaseFilterRequest) (*dto.CaseListResponse, error) {
	filter := repositories.CaseFilter{
		Specialty:  req.Specialty,
		Modality:   req.Modality,
		BodyPart:   req.BodyPart,
		Difficulty: req.Difficulty,
		Limit:      req.Limit,
	}
	cases, err := svc.sqlSvc.Catalog().ListCases(filter)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to list cases")
	}

	responses := make([]dto.CaseResponse, len(cases))
	for i, c := range cases {
		responses[i] = MapCaseToResponse(c)
	}

	return &dto.CaseListResponse{
		Cases: responses,
		Total: len(responses),
	}, nil
}

func (svc *CatalogService) RandomCases(filter repositories.CaseFilter, limit int) ([]model.Case, error) {
	if limit <= 0 {
		return nil, shared.NewValidationError(fmt.Errorf("limit %d", limit), "Limit must be positive")
	}

	cases, err := svc.sqlSvc.Catalog().RandomCases(filter, limit)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to sample cases")
	}
	return cases, nil
}

func MapCaseToResponse(c model.Case) dto.CaseResponse {
	return dto.CaseResponse{
		ID:         c.ID,
		Title:      c.Title,
		Specialty:  c.Specialty,
		Modality:   c.Modality,
		BodyPart:   c.BodyPart,
		Difficulty: c.Difficulty,
		ImageURL:   c.ImageURL,
	}
}
