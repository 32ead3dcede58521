package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/jobfinder-service/internal/events"
	"github.com/spec-kit/jobfinder-service/internal/service"
)

// NotificationWorker subscribes to domain events and turns them into
// notification triggers.
type NotificationWorker struct {
	notifications *service.NotificationService
	logger        *zap.Logger
}

// NewNotificationWorker builds the worker.
func NewNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{notifications: notifications, logger: logger}
}

// Register wires the worker's handlers into the dispatcher.
func (w *NotificationWorker) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventJobLiked, w.handleJobLiked)
	dispatcher.Subscribe(events.EventJobUnliked, w.handleJobUnliked)
	dispatcher.Subscribe(events.EventApplicationSubmitted, w.handleApplicationSubmitted)
	dispatcher.Subscribe(events.EventApplicationStatusChanged, w.handleApplicationStatusChanged)
}

func (w *NotificationWorker) handleJobLiked(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.JobLikedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s: %T", event.Type, event.Payload)
	}
	return w.notifications.Trigger(ctx, service.TriggerInput{
		RecipientID: payload.JobAuthorID,
		SenderID:    payload.LikerID,
		Message:     service.JobLikedMessage(payload.JobTitle),
		JobID:       &payload.JobID,
	})
}

func (w *NotificationWorker) handleJobUnliked(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.JobUnlikedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s: %T", event.Type, event.Payload)
	}
	return w.notifications.WithdrawJobLike(ctx, payload.JobAuthorID, payload.LikerID, payload.JobID)
}

func (w *NotificationWorker) handleApplicationSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationSubmittedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s: %T", event.Type, event.Payload)
	}
	return w.notifications.Trigger(ctx, service.TriggerInput{
		RecipientID:   payload.JobAuthorID,
		SenderID:      payload.ApplicantID,
		Message:       service.NewApplicantMessage(payload.JobTitle, payload.ApplicantName),
		ApplicationID: &payload.ApplicationID,
	})
}

func (w *NotificationWorker) handleApplicationStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s: %T", event.Type, event.Payload)
	}
	return w.notifications.Trigger(ctx, service.TriggerInput{
		RecipientID:   payload.ApplicantID,
		SenderID:      payload.JobAuthorID,
		Message:       service.ApplicationStatusMessage(payload.JobTitle, payload.NewStatus),
		ApplicationID: &payload.ApplicationID,
	})
}
