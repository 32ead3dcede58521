package domain

import "time"

// Notification records a business event addressed to one recipient. At most
// one of JobID / ApplicationID is set; it ties the row to the event that
// produced it and is the dedup key together with recipient and sender.
type Notification struct {
	ID            string
	RecipientID   string
	SenderID      string
	Message       string
	IsRead        bool
	JobID         *string
	ApplicationID *string
	CreatedAt     time.Time
}

// NotificationView is the read model returned to callers. SenderName is
// resolved at read time so renamed accounts show their current name.
type NotificationView struct {
	NotificationID string    `json:"notification_id"`
	SenderName     string    `json:"sender_name"`
	Message        string    `json:"message"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
	JobID          *string   `json:"job_id,omitempty"`
	ApplicationID  *string   `json:"application_id,omitempty"`
}

// NotificationFeed wraps a recipient's notifications. An empty feed carries
// a sentinel message instead of being treated as an error.
type NotificationFeed struct {
	Notifications []NotificationView `json:"notifications"`
	Message       string             `json:"message,omitempty"`
}

// JobSnapshot is the job state resolved when a notification detail is
// fetched.
type JobSnapshot struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Type       string `json:"type"`
	Likes      int    `json:"likes"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	IsActive   bool   `json:"is_active"`
	IsLiked    bool   `json:"is_liked"`
}

// ApplicationSnapshot is the application state resolved for status-change
// and new-applicant notifications.
type ApplicationSnapshot struct {
	ID            string            `json:"id"`
	ApplicantID   string            `json:"applicant_id"`
	ApplicantName string            `json:"applicant_name"`
	Status        ApplicationStatus `json:"status"`
	CoverLetter   string            `json:"cover_letter"`
	AppliedAt     time.Time         `json:"applied_at"`
}

// NotificationDetail is returned by the mark-read operation. Available is
// false when the correlated job or application has been removed or
// deactivated since the notification was written.
type NotificationDetail struct {
	Notification NotificationView     `json:"notification"`
	Available    bool                 `json:"available"`
	Reason       string               `json:"reason,omitempty"`
	Job          *JobSnapshot         `json:"job,omitempty"`
	Application  *ApplicationSnapshot `json:"application,omitempty"`
}
