package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobfinder-service/internal/api/dto"
	"github.com/spec-kit/jobfinder-service/internal/auth"
	"github.com/spec-kit/jobfinder-service/internal/service"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

// ApplicationHandler serves job application endpoints.
type ApplicationHandler struct {
	applications *service.ApplicationService
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(applications *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// Apply submits an application.
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}

	var req dto.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	application, err := h.applications.Apply(c.Context(), principal.ID, req.JobID, req.CoverLetter)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewApplicationResponse(application))
}

// ListOwn returns the caller's applications.
func (h *ApplicationHandler) ListOwn(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	applications, err := h.applications.ListOwn(c.Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMyApplicationResponses(applications))
}

// ListForJob returns applicants for a posting owned by the caller.
func (h *ApplicationHandler) ListForJob(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	applications, err := h.applications.ListForJob(c.Context(), c.Params("jobId"), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewApplicationResponses(applications))
}

// UpdateStatus moves an application to a new status.
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}

	var req dto.ApplicationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	application, err := h.applications.UpdateStatus(c.Context(), c.Params("id"), principal.ID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewApplicationResponse(application))
}
