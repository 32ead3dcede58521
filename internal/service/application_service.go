package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/jobfinder-service/internal/domain"
	"github.com/spec-kit/jobfinder-service/internal/events"
	"github.com/spec-kit/jobfinder-service/internal/repository"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

// ApplicationService handles job applications and their status lifecycle.
type ApplicationService struct {
	applications repository.ApplicationRepository
	jobs         repository.JobRepository
	users        repository.UserRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// ApplicationDependencies bundles collaborator requirements.
type ApplicationDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	JobRepo         repository.JobRepository
	UserRepo        repository.UserRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewApplicationService builds the service.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		applications: deps.ApplicationRepo,
		jobs:         deps.JobRepo,
		users:        deps.UserRepo,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
	}
}

// Apply submits an application to an active job. Applying twice to the same
// job, or to your own posting, is rejected.
func (s *ApplicationService) Apply(ctx context.Context, applicantID, jobID, coverLetter string) (*domain.Application, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("job", nil)
		}
		return nil, err
	}
	if !job.IsActive {
		return nil, apperrors.NewInvalidRequestState("job is not active", nil)
	}
	if job.AuthorID == applicantID {
		return nil, apperrors.NewInvalidRequestState("you cannot apply to your own job", nil)
	}

	if _, err := s.applications.GetByUserAndJob(ctx, applicantID, jobID); err == nil {
		return nil, apperrors.NewConflict("you already applied to this job", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	application := &domain.Application{
		UserID:      applicantID,
		JobID:       jobID,
		Status:      domain.ApplicationStatusPending,
		CoverLetter: coverLetter,
	}
	if err := s.applications.Create(ctx, application); err != nil {
		return nil, err
	}

	applicantName, err := s.users.ResolveDisplayName(ctx, applicantID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventApplicationSubmitted,
		ActorID:   applicantID,
		Timestamp: time.Now().UTC(),
		Payload: events.ApplicationSubmittedPayload{
			ApplicationID: application.ID,
			JobID:         job.ID,
			JobTitle:      job.Title,
			JobAuthorID:   job.AuthorID,
			ApplicantID:   applicantID,
			ApplicantName: applicantName,
		},
	}); err != nil {
		return nil, err
	}
	return application, nil
}

// ListOwn returns the applicant's applications, newest first, each enriched
// with the job it targets. Jobs removed since applying show an empty title.
func (s *ApplicationService) ListOwn(ctx context.Context, applicantID string) ([]domain.ApplicationWithJob, error) {
	applications, err := s.applications.ListByUser(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.ApplicationWithJob, 0, len(applications))
	for _, application := range applications {
		entry := domain.ApplicationWithJob{Application: application}
		job, err := s.jobs.GetByID(ctx, application.JobID)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
		} else {
			entry.JobTitle = job.Title
			entry.JobIsActive = job.IsActive
		}
		result = append(result, entry)
	}
	return result, nil
}

// ListForJob returns the applications for a posting; only the posting's
// owner may see them.
func (s *ApplicationService) ListForJob(ctx context.Context, jobID, requesterID string) ([]domain.Application, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("job", nil)
		}
		return nil, err
	}
	if job.AuthorID != requesterID {
		return nil, apperrors.NewInsufficientPermission("you do not own this job")
	}
	return s.applications.ListByJob(ctx, jobID)
}

// UpdateStatus moves an application to a new status; only the job's owner
// may decide. The applicant is notified of the latest decision.
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID, requesterID, status string) (*domain.Application, error) {
	if !domain.ValidApplicationStatus(status) {
		return nil, apperrors.NewInvalidRequestState("status must be PENDING, ACCEPTED or REJECTED", map[string]any{"status": status})
	}
	newStatus := domain.ApplicationStatus(status)

	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("application", nil)
		}
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, application.JobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("job", nil)
		}
		return nil, err
	}
	if job.AuthorID != requesterID {
		return nil, apperrors.NewInsufficientPermission("you do not own this job")
	}
	if application.Status == newStatus {
		return application, nil
	}

	oldStatus := application.Status
	if err := s.applications.UpdateStatus(ctx, applicationID, newStatus); err != nil {
		return nil, err
	}
	application.Status = newStatus

	if err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventApplicationStatusChanged,
		ActorID:   requesterID,
		Timestamp: time.Now().UTC(),
		Payload: events.ApplicationStatusChangedPayload{
			ApplicationID: application.ID,
			JobID:         job.ID,
			JobTitle:      job.Title,
			JobAuthorID:   job.AuthorID,
			ApplicantID:   application.UserID,
			OldStatus:     oldStatus,
			NewStatus:     newStatus,
		},
	}); err != nil {
		return nil, err
	}
	return application, nil
}
