package dto

import (
	"time"

	"github.com/spec-kit/jobfinder-service/internal/domain"
)

// ApplyRequest submits an application to a job.
type ApplyRequest struct {
	JobID       string `json:"job_id" validate:"required,uuid4"`
	CoverLetter string `json:"cover_letter" validate:"max=4000"`
}

// ApplicationStatusRequest changes an application's status.
type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ApplicationResponse is the public application shape.
type ApplicationResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	JobID       string    `json:"job_id"`
	Status      string    `json:"status"`
	CoverLetter string    `json:"cover_letter"`
	AppliedAt   time.Time `json:"applied_at"`
}

// NewApplicationResponse maps a domain application.
func NewApplicationResponse(application *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          application.ID,
		UserID:      application.UserID,
		JobID:       application.JobID,
		Status:      string(application.Status),
		CoverLetter: application.CoverLetter,
		AppliedAt:   application.AppliedAt,
	}
}

// NewApplicationResponses maps a slice of domain applications.
func NewApplicationResponses(applications []domain.Application) []ApplicationResponse {
	result := make([]ApplicationResponse, 0, len(applications))
	for i := range applications {
		result = append(result, NewApplicationResponse(&applications[i]))
	}
	return result
}

// MyApplicationResponse is an application in the applicant's own listing,
// enriched with the job it targets.
type MyApplicationResponse struct {
	ApplicationResponse
	JobTitle    string `json:"job_title"`
	JobIsActive bool   `json:"job_is_active"`
}

// NewMyApplicationResponses maps enriched applications.
func NewMyApplicationResponses(applications []domain.ApplicationWithJob) []MyApplicationResponse {
	result := make([]MyApplicationResponse, 0, len(applications))
	for i := range applications {
		result = append(result, MyApplicationResponse{
			ApplicationResponse: NewApplicationResponse(&applications[i].Application),
			JobTitle:            applications[i].JobTitle,
			JobIsActive:         applications[i].JobIsActive,
		})
	}
	return result
}
