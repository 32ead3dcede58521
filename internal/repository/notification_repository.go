package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/jobfinder-service/internal/domain"
)

// NotificationRepository encapsulates notification persistence. Correlation
// lookups match recipient, sender and exactly one correlation column; job and
// application correlations are never cross-matched.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	UpdateMessage(ctx context.Context, id, message string) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error)
	FindByJobCorrelation(ctx context.Context, recipientID, senderID, jobID string) (*domain.Notification, error)
	FindByApplicationCorrelation(ctx context.Context, recipientID, senderID, applicationID string) (*domain.Notification, error)
	DeleteByJobCorrelation(ctx context.Context, recipientID, senderID, jobID string) error
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, recipientID string) (int, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

const notificationColumns = `id, recipient_id, sender_id, message, is_read, job_id, application_id, created_at`

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (recipient_id, sender_id, message, is_read, job_id, application_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		notification.RecipientID,
		notification.SenderID,
		notification.Message,
		notification.IsRead,
		notification.JobID,
		notification.ApplicationID,
	).Scan(&notification.ID, &notification.CreatedAt)
}

// UpdateMessage overwrites the message and refreshes the created timestamp,
// so the row always reflects the latest event for its correlation triple.
func (r *notificationRepository) UpdateMessage(ctx context.Context, id, message string) error {
	const query = `UPDATE notifications SET message=$1, created_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, message, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var notification domain.Notification
		if err := scanNotification(rows, &notification); err != nil {
			return nil, err
		}
		result = append(result, notification)
	}
	return result, rows.Err()
}

func (r *notificationRepository) FindByJobCorrelation(ctx context.Context, recipientID, senderID, jobID string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
        WHERE recipient_id=$1 AND sender_id=$2 AND job_id=$3`
	return r.fetchCorrelated(ctx, query, recipientID, senderID, jobID)
}

func (r *notificationRepository) FindByApplicationCorrelation(ctx context.Context, recipientID, senderID, applicationID string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
        WHERE recipient_id=$1 AND sender_id=$2 AND application_id=$3`
	return r.fetchCorrelated(ctx, query, recipientID, senderID, applicationID)
}

func (r *notificationRepository) DeleteByJobCorrelation(ctx context.Context, recipientID, senderID, jobID string) error {
	const query = `DELETE FROM notifications WHERE recipient_id=$1 AND sender_id=$2 AND job_id=$3`
	_, err := r.pool.Exec(ctx, query, recipientID, senderID, jobID)
	return err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE notifications SET is_read=TRUE WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND is_read=FALSE`
	var count int
	if err := r.pool.QueryRow(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Notification, error) {
	var notification domain.Notification
	if err := scanNotification(r.pool.QueryRow(ctx, query, arg), &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) fetchCorrelated(ctx context.Context, query, recipientID, senderID, correlationID string) (*domain.Notification, error) {
	var notification domain.Notification
	if err := scanNotification(r.pool.QueryRow(ctx, query, recipientID, senderID, correlationID), &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

func scanNotification(row pgx.Row, notification *domain.Notification) error {
	return row.Scan(
		&notification.ID,
		&notification.RecipientID,
		&notification.SenderID,
		&notification.Message,
		&notification.IsRead,
		&notification.JobID,
		&notification.ApplicationID,
		&notification.CreatedAt,
	)
}
