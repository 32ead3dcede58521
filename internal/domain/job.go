package domain

import "time"

// Job is the aggregate for job postings created by organizations.
type Job struct {
	ID          string
	Title       string
	Description string
	Type        string
	Category    string
	Likes       int
	AuthorID    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JobLike maps a user to a job they liked.
type JobLike struct {
	UserID string
	JobID  string
}
