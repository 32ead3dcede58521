package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobfinder-service/internal/api/dto"
	"github.com/spec-kit/jobfinder-service/internal/auth"
	"github.com/spec-kit/jobfinder-service/internal/service"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

// JobHandler serves job posting endpoints.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler constructs the handler.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// Create publishes a new posting.
func (h *JobHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}

	var req dto.JobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	job, err := h.jobs.Create(c.Context(), principal.ID, service.JobInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewJobResponse(job))
}

// List returns all active postings.
func (h *JobHandler) List(c *fiber.Ctx) error {
	jobs, err := h.jobs.ListActive(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewJobResponses(jobs))
}

// ListOwn returns the authenticated organization's postings.
func (h *JobHandler) ListOwn(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	jobs, err := h.jobs.ListOwn(c.Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewJobResponses(jobs))
}

// ListLiked returns the postings the authenticated user has liked.
func (h *JobHandler) ListLiked(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	jobs, err := h.jobs.ListLiked(c.Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewJobResponses(jobs))
}

// Get returns one posting enriched with author name and viewer like state.
func (h *JobHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	snapshot, err := h.jobs.Get(c.Context(), c.Params("id"), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(snapshot)
}

// Update modifies a posting owned by the caller.
func (h *JobHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}

	var req dto.JobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	job, err := h.jobs.Update(c.Context(), c.Params("id"), principal.ID, service.JobInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewJobResponse(job))
}

// Delete permanently removes a posting owned by the caller.
func (h *JobHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	if err := h.jobs.Delete(c.Context(), c.Params("id"), principal.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "job deleted"})
}

// Activate re-enables a deactivated posting.
func (h *JobHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

// Deactivate hides a posting from listings and applications.
func (h *JobHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *JobHandler) setActive(c *fiber.Ctx, active bool) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	if err := h.jobs.SetActive(c.Context(), c.Params("id"), principal.ID, active); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"is_active": active})
}

// Like records the caller's like on a posting.
func (h *JobHandler) Like(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	if err := h.jobs.Like(c.Context(), c.Params("id"), principal.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "job liked"})
}

// Unlike withdraws the caller's like.
func (h *JobHandler) Unlike(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	if err := h.jobs.Unlike(c.Context(), c.Params("id"), principal.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "job unliked"})
}
