package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/jobfinder-service/internal/domain"
)

// ApplicationRepository encapsulates application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, application *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	GetByUserAndJob(ctx context.Context, userID, jobID string) (*domain.Application, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]domain.Application, error)
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `id, user_id, job_id, status, cover_letter, applied_at`

func (r *applicationRepository) Create(ctx context.Context, application *domain.Application) error {
	const query = `
        INSERT INTO applications (user_id, job_id, status, cover_letter)
        VALUES ($1, $2, $3, $4)
        RETURNING id, applied_at`
	return r.pool.QueryRow(ctx, query,
		application.UserID,
		application.JobID,
		application.Status,
		application.CoverLetter,
	).Scan(&application.ID, &application.AppliedAt)
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *applicationRepository) GetByUserAndJob(ctx context.Context, userID, jobID string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id=$1 AND job_id=$2`
	var application domain.Application
	if err := r.pool.QueryRow(ctx, query, userID, jobID).Scan(
		&application.ID,
		&application.UserID,
		&application.JobID,
		&application.Status,
		&application.CoverLetter,
		&application.AppliedAt,
	); err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id=$1 ORDER BY applied_at DESC`
	return r.fetchMany(ctx, query, userID)
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id=$1 ORDER BY applied_at DESC`
	return r.fetchMany(ctx, query, jobID)
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	const query = `UPDATE applications SET status=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Application, error) {
	var application domain.Application
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&application.ID,
		&application.UserID,
		&application.JobID,
		&application.Status,
		&application.CoverLetter,
		&application.AppliedAt,
	); err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) fetchMany(ctx context.Context, query string, arg any) ([]domain.Application, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Application
	for rows.Next() {
		var application domain.Application
		if err := rows.Scan(
			&application.ID,
			&application.UserID,
			&application.JobID,
			&application.Status,
			&application.CoverLetter,
			&application.AppliedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, application)
	}
	return result, rows.Err()
}
