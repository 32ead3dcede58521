package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/jobfinder-service/internal/domain"
	"github.com/spec-kit/jobfinder-service/internal/observability"
	"github.com/spec-kit/jobfinder-service/internal/repository"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

const emptyFeedMessage = "You have no notifications yet"

// UnreadPusher delivers unread-count updates to an external endpoint.
// Delivery is best-effort; implementations swallow their own failures.
type UnreadPusher interface {
	Push(ctx context.Context, recipientID string)
}

// NotificationService creates, deduplicates, updates and reads notification
// records, and drives the unread-count push after each write.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	jobs          repository.JobRepository
	applications  repository.ApplicationRepository
	notifier      UnreadPusher
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// NotificationDependencies bundles collaborator requirements.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	JobRepo          repository.JobRepository
	ApplicationRepo  repository.ApplicationRepository
	Notifier         UnreadPusher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
}

// NewNotificationService builds the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		jobs:          deps.JobRepo,
		applications:  deps.ApplicationRepo,
		notifier:      deps.Notifier,
		metrics:       deps.Metrics,
		logger:        logger,
	}
}

// TriggerInput describes a business event to notify about. At most one of
// JobID / ApplicationID is set.
type TriggerInput struct {
	RecipientID   string
	SenderID      string
	Message       string
	JobID         *string
	ApplicationID *string
}

// JobLikedMessage builds the stored message for a like notification. The
// liker's name is intentionally absent; it is spliced in at read time so a
// later username change is reflected.
func JobLikedMessage(jobTitle string) string {
	return fmt.Sprintf("Your job %q was liked by ", jobTitle)
}

// NewApplicantMessage builds the pre-finalized message for a new
// application.
func NewApplicantMessage(jobTitle, applicantName string) string {
	return fmt.Sprintf("New applicant for %q: %s", jobTitle, applicantName)
}

// ApplicationStatusMessage builds the pre-finalized message for a status
// change.
func ApplicationStatusMessage(jobTitle string, status domain.ApplicationStatus) string {
	return fmt.Sprintf("Your application for %q is now %s", jobTitle, status)
}

// Trigger upserts the notification for the event's correlation triple and
// then pushes the recipient's unread count. A repeated trigger for the same
// (recipient, sender, correlation id) overwrites the message and refreshes
// the created timestamp instead of inserting a duplicate; the push leg never
// fails the trigger.
func (s *NotificationService) Trigger(ctx context.Context, input TriggerInput) error {
	if input.JobID != nil && input.ApplicationID != nil {
		return apperrors.NewInvalidRequestState("a notification correlates to a job or an application, not both", nil)
	}

	existing, err := s.findCorrelated(ctx, input)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if existing != nil {
		if err := s.notifications.UpdateMessage(ctx, existing.ID, input.Message); err != nil {
			return err
		}
		s.metrics.RecordNotificationUpsert("update")
	} else {
		notification := &domain.Notification{
			RecipientID:   input.RecipientID,
			SenderID:      input.SenderID,
			Message:       input.Message,
			IsRead:        false,
			JobID:         input.JobID,
			ApplicationID: input.ApplicationID,
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			return err
		}
		s.metrics.RecordNotificationUpsert("insert")
	}

	s.notifier.Push(ctx, input.RecipientID)
	return nil
}

func (s *NotificationService) findCorrelated(ctx context.Context, input TriggerInput) (*domain.Notification, error) {
	switch {
	case input.JobID != nil:
		return s.notifications.FindByJobCorrelation(ctx, input.RecipientID, input.SenderID, *input.JobID)
	case input.ApplicationID != nil:
		return s.notifications.FindByApplicationCorrelation(ctx, input.RecipientID, input.SenderID, *input.ApplicationID)
	default:
		// uncorrelated notifications are never deduplicated
		return nil, pgx.ErrNoRows
	}
}

// WithdrawJobLike removes the notification produced by a like that has been
// taken back, then refreshes the recipient's unread count.
func (s *NotificationService) WithdrawJobLike(ctx context.Context, recipientID, senderID, jobID string) error {
	if err := s.notifications.DeleteByJobCorrelation(ctx, recipientID, senderID, jobID); err != nil {
		return err
	}
	s.notifier.Push(ctx, recipientID)
	return nil
}

// List returns the recipient's notifications, newest first. Sender names are
// resolved at read time; job-origin messages get the sender name spliced in,
// while application-correlated messages are already final. An empty feed is
// not an error and carries a sentinel message.
func (s *NotificationService) List(ctx context.Context, recipientID string) (*domain.NotificationFeed, error) {
	stored, err := s.notifications.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return &domain.NotificationFeed{
			Notifications: []domain.NotificationView{},
			Message:       emptyFeedMessage,
		}, nil
	}

	views := make([]domain.NotificationView, 0, len(stored))
	for _, notification := range stored {
		senderName, err := s.resolveSenderName(ctx, notification.SenderID)
		if err != nil {
			return nil, err
		}
		views = append(views, buildView(notification, senderName))
	}
	return &domain.NotificationFeed{Notifications: views}, nil
}

// MarkReadAndFetchDetail flips the notification to read (idempotently) and
// resolves the correlated snapshot. Only the recipient may fetch it. A
// correlate that has been removed or deactivated yields a soft unavailable
// result rather than a failure.
func (s *NotificationService) MarkReadAndFetchDetail(ctx context.Context, notificationID, requesterID string) (*domain.NotificationDetail, error) {
	notification, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("notification", nil)
		}
		return nil, err
	}
	if notification.RecipientID != requesterID {
		return nil, apperrors.NewInsufficientPermission("you do not have permission to view this notification")
	}

	if !notification.IsRead {
		if err := s.notifications.MarkRead(ctx, notification.ID); err != nil {
			return nil, err
		}
		notification.IsRead = true
	}

	senderName, err := s.resolveSenderName(ctx, notification.SenderID)
	if err != nil {
		return nil, err
	}

	detail := &domain.NotificationDetail{
		Notification: buildView(*notification, senderName),
		Available:    true,
	}

	switch {
	case notification.JobID != nil:
		if err := s.attachJobDetail(ctx, notification, requesterID, detail); err != nil {
			return nil, err
		}
	case notification.ApplicationID != nil:
		if err := s.attachApplicationDetail(ctx, notification, requesterID, detail); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *NotificationService) attachJobDetail(ctx context.Context, notification *domain.Notification, viewerID string, detail *domain.NotificationDetail) error {
	job, err := s.jobs.GetByID(ctx, *notification.JobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			detail.Available = false
			detail.Reason = "the job this notification refers to no longer exists"
			return nil
		}
		return err
	}
	if !job.IsActive {
		detail.Available = false
		detail.Reason = "the job this notification refers to is no longer active"
		return nil
	}

	snapshot, err := s.buildJobSnapshot(ctx, job, viewerID)
	if err != nil {
		return err
	}
	detail.Job = snapshot
	return nil
}

func (s *NotificationService) attachApplicationDetail(ctx context.Context, notification *domain.Notification, viewerID string, detail *domain.NotificationDetail) error {
	application, err := s.applications.GetByID(ctx, *notification.ApplicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			detail.Available = false
			detail.Reason = "the application this notification refers to no longer exists"
			return nil
		}
		return err
	}

	job, err := s.jobs.GetByID(ctx, application.JobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			detail.Available = false
			detail.Reason = "the job this notification refers to no longer exists"
			return nil
		}
		return err
	}
	if !job.IsActive {
		detail.Available = false
		detail.Reason = "the job this notification refers to is no longer active"
		return nil
	}

	applicantName, err := s.resolveSenderName(ctx, application.UserID)
	if err != nil {
		return err
	}
	detail.Application = &domain.ApplicationSnapshot{
		ID:            application.ID,
		ApplicantID:   application.UserID,
		ApplicantName: applicantName,
		Status:        application.Status,
		CoverLetter:   application.CoverLetter,
		AppliedAt:     application.AppliedAt,
	}

	snapshot, err := s.buildJobSnapshot(ctx, job, viewerID)
	if err != nil {
		return err
	}
	detail.Job = snapshot
	return nil
}

func (s *NotificationService) buildJobSnapshot(ctx context.Context, job *domain.Job, viewerID string) (*domain.JobSnapshot, error) {
	authorName, err := s.resolveSenderName(ctx, job.AuthorID)
	if err != nil {
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

// resolveSenderName tolerates deleted accounts; their notifications keep an
// empty sender name instead of failing the whole feed.
func (s *NotificationService) resolveSenderName(ctx context.Context, userID string) (string, error) {
	name, err := s.users.ResolveDisplayName(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return name, nil
}

func buildView(notification domain.Notification, senderName string) domain.NotificationView {
	message := notification.Message
	if notification.JobID != nil {
		message += senderName
	}
	return domain.NotificationView{
		NotificationID: notification.ID,
		SenderName:     senderName,
		Message:        message,
		IsRead:         notification.IsRead,
		CreatedAt:      notification.CreatedAt,
		JobID:          notification.JobID,
		ApplicationID:  notification.ApplicationID,
	}
}
