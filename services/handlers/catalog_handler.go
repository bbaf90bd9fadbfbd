package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/shared"
)

type CatalogHandler struct {
	catalogSvc CatalogServiceInterface
}

func NewCatalogHandler(catalogSvc CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogSvc: catalogSvc,
	}
}

// @Summary List cases
// @Description List active catalog cases with optional filters
// @Tags catalog
// @Accept json
// @Produce json
// @Param specialty query string false "Specialty filter"
// @Param modality query string false "Modality filter"
// @Param body_part query string false "Body part filter"
// @Param difficulty query int false "Difficulty filter (1-5)"
// @Success 200 {object} shared.Response{data=dto.CaseListResponse}
// @Router /api/v1/cases [get]
func (h *CatalogHandler) ListCases(c *fiber.Ctx) error {
	var req dto.CaseFilterRequest
	if err := c.QueryParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid query parameters")
	}

	cases, err := h.catalogSvc.ListCases(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", cases)
}

// @Summary Get case
// @Description Get a single catalog case by id
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} shared.Response{data=dto.CaseResponse}
// @Router /api/v1/cases/{id} [get]
func (h *CatalogHandler) GetCase(c *fiber.Ctx) error {
	caseID := c.Params("id")

	caseResponse, err := h.catalogSvc.GetCaseResponse(caseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", caseResponse)
}
