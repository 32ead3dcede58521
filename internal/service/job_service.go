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

// JobService handles job postings and the like/unlike interactions that
// feed the notification pipeline.
type JobService struct {
	jobs       repository.JobRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// JobDependencies bundles collaborator requirements.
type JobDependencies struct {
	JobRepo    repository.JobRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewJobService builds the service.
func NewJobService(deps JobDependencies) *JobService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobService{
		jobs:       deps.JobRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// JobInput describes a posting's mutable fields.
type JobInput struct {
	Title       string
	Description string
	Type        string
	Category    string
}

// Create publishes a new active job owned by the author.
func (s *JobService) Create(ctx context.Context, authorID string, input JobInput) (*domain.Job, error) {
	job := &domain.Job{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Category:    input.Category,
		AuthorID:    authorID,
		IsActive:    true,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Update modifies a posting; only its owner may do so.
func (s *JobService) Update(ctx context.Context, jobID, requesterID string, input JobInput) (*domain.Job, error) {
	job, err := s.getOwned(ctx, jobID, requesterID)
	if err != nil {
		return nil, err
	}

	job.Title = input.Title
	job.Description = input.Description
	job.Type = input.Type
	job.Category = input.Category
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Delete removes a posting permanently, together with its likes,
// applications and correlated notifications. Only its owner may do so.
func (s *JobService) Delete(ctx context.Context, jobID, requesterID string) error {
	if _, err := s.getOwned(ctx, jobID, requesterID); err != nil {
		return err
	}
	return s.jobs.Delete(ctx, jobID)
}

// SetActive activates or deactivates a posting; only its owner may do so.
func (s *JobService) SetActive(ctx context.Context, jobID, requesterID string, active bool) error {
	if _, err := s.getOwned(ctx, jobID, requesterID); err != nil {
		return err
	}
	return s.jobs.SetActive(ctx, jobID, active)
}

// Get returns an enriched view of one job: author name plus whether the
// viewer already liked it.
func (s *JobService) Get(ctx context.Context, jobID, viewerID string) (*domain.JobSnapshot, error) {
	job, err := s.fetch(ctx, jobID)
	if err != nil {
		return nil, err
	}

	authorName, err := s.users.ResolveDisplayName(ctx, job.AuthorID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	liked, err := s.jobs.HasLike(ctx, viewerID, job.ID)
	if err != nil {
		return nil, err
	}
	return &domain.JobSnapshot{
		ID:         job.ID,
		Title:      job.Title,
		Category:   job.Category,
		Type:       job.Type,
		Likes:      job.Likes,
		AuthorID:   job.AuthorID,
		AuthorName: authorName,
		IsActive:   job.IsActive,
		IsLiked:    liked,
	}, nil
}

// ListActive returns all active postings, newest first.
func (s *JobService) ListActive(ctx context.Context) ([]domain.Job, error) {
	return s.jobs.ListActive(ctx)
}

// ListOwn returns every posting of the author, including deactivated ones.
func (s *JobService) ListOwn(ctx context.Context, authorID string) ([]domain.Job, error) {
	return s.jobs.ListByAuthor(ctx, authorID, false)
}

// ListLiked returns the active postings the user has liked.
func (s *JobService) ListLiked(ctx context.Context, userID string) ([]domain.Job, error) {
	return s.jobs.ListLikedBy(ctx, userID)
}

// Like records a like and notifies the job's author. Liking your own job or
// liking twice is rejected.
func (s *JobService) Like(ctx context.Context, jobID, likerID string) error {
	job, err := s.fetch(ctx, jobID)
	if err != nil {
		return err
	}
	if !job.IsActive {
		return apperrors.NewInvalidRequestState("job is not active", nil)
	}
	if job.AuthorID == likerID {
		return apperrors.NewInvalidRequestState("you cannot like your own job", nil)
	}

	liked, err := s.jobs.HasLike(ctx, likerID, jobID)
	if err != nil {
		return err
	}
	if liked {
		return apperrors.NewInvalidRequestState("you already liked this job", nil)
	}
	if err := s.jobs.AddLike(ctx, likerID, jobID); err != nil {
		return err
	}

	return s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventJobLiked,
		ActorID:   likerID,
		Timestamp: time.Now().UTC(),
		Payload: events.JobLikedPayload{
			JobID:       job.ID,
			JobTitle:    job.Title,
			JobAuthorID: job.AuthorID,
			LikerID:     likerID,
		},
	})
}

// Unlike withdraws a like and retracts the matching notification.
func (s *JobService) Unlike(ctx context.Context, jobID, likerID string) error {
	job, err := s.fetch(ctx, jobID)
	if err != nil {
		return err
	}

	if err := s.jobs.RemoveLike(ctx, likerID, jobID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInvalidRequestState("you have not liked this job", nil)
		}
		return err
	}

	return s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventJobUnliked,
		ActorID:   likerID,
		Timestamp: time.Now().UTC(),
		Payload: events.JobUnlikedPayload{
			JobID:       job.ID,
			JobAuthorID: job.AuthorID,
			LikerID:     likerID,
		},
	})
}

func (s *JobService) fetch(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("job", nil)
		}
		return nil, err
	}
	return job, nil
}

func (s *JobService) getOwned(ctx context.Context, jobID, requesterID string) (*domain.Job, error) {
	job, err := s.fetch(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.AuthorID != requesterID {
		return nil, apperrors.NewInsufficientPermission("you do not own this job")
	}
	return job, nil
}
