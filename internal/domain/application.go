package domain

import "time"

// ApplicationStatus enumerates application lifecycle states.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDING"
	ApplicationStatusAccepted ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
)

// ValidApplicationStatus reports whether the value is a known status.
func ValidApplicationStatus(value string) bool {
	switch ApplicationStatus(value) {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application records a user applying to a job.
type Application struct {
	ID          string
	UserID      string
	JobID       string
	Status      ApplicationStatus
	CoverLetter string
	AppliedAt   time.Time
}

// ApplicationWithJob pairs an application with the job it targets for the
// applicant's own listing.
type ApplicationWithJob struct {
	Application
	JobTitle    string
	JobIsActive bool
}
