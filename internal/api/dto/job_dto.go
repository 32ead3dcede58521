package dto

import (
	"time"

	"github.com/spec-kit/jobfinder-service/internal/domain"
)

// JobRequest creates or updates a posting.
type JobRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,min=10"`
	Type        string `json:"type" validate:"required,max=64"`
	Category    string `json:"category" validate:"required,max=64"`
}

// JobResponse is the public posting shape.
type JobResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Likes       int       `json:"likes"`
	AuthorID    string    `json:"author_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewJobResponse maps a domain job.
func NewJobResponse(job *domain.Job) JobResponse {
	return JobResponse{
		ID:          job.ID,
		Title:       job.Title,
		Description: job.Description,
		Type:        job.Type,
		Category:    job.Category,
		Likes:       job.Likes,
		AuthorID:    job.AuthorID,
		IsActive:    job.IsActive,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

// NewJobResponses maps a slice of domain jobs.
func NewJobResponses(jobs []domain.Job) []JobResponse {
	result := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		result = append(result, NewJobResponse(&jobs[i]))
	}
	return result
}
