package events

import (
	"time"

	"github.com/spec-kit/jobfinder-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventJobLiked                 EventType = "job_liked"
	EventJobUnliked               EventType = "job_unliked"
	EventApplicationSubmitted     EventType = "application_submitted"
	EventApplicationStatusChanged EventType = "application_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// JobLikedPayload payload.
type JobLikedPayload struct {
	JobID       string `json:"job_id"`
	JobTitle    string `json:"job_title"`
	JobAuthorID string `json:"job_author_id"`
	LikerID     string `json:"liker_id"`
}

// JobUnlikedPayload payload.
type JobUnlikedPayload struct {
	JobID       string `json:"job_id"`
	JobAuthorID string `json:"job_author_id"`
	LikerID     string `json:"liker_id"`
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	ApplicationID string `json:"application_id"`
	JobID         string `json:"job_id"`
	JobTitle      string `json:"job_title"`
	JobAuthorID   string `json:"job_author_id"`
	ApplicantID   string `json:"applicant_id"`
	ApplicantName string `json:"applicant_name"`
}

// ApplicationStatusChangedPayload payload.
type ApplicationStatusChangedPayload struct {
	ApplicationID string                   `json:"application_id"`
	JobID         string                   `json:"job_id"`
	JobTitle      string                   `json:"job_title"`
	JobAuthorID   string                   `json:"job_author_id"`
	ApplicantID   string                   `json:"applicant_id"`
	OldStatus     domain.ApplicationStatus `json:"old_status"`
	NewStatus     domain.ApplicationStatus `json:"new_status"`
}
