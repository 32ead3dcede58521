package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/jobfinder-service/internal/domain"
)

// JobRepository encapsulates job and job-like persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	Update(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	ListActive(ctx context.Context) ([]domain.Job, error)
	ListByAuthor(ctx context.Context, authorID string, activeOnly bool) ([]domain.Job, error)
	ListLikedBy(ctx context.Context, userID string) ([]domain.Job, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error

	HasLike(ctx context.Context, userID, jobID string) (bool, error)
	AddLike(ctx context.Context, userID, jobID string) error
	RemoveLike(ctx context.Context, userID, jobID string) error
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

const jobColumns = `id, title, description, type, category, likes, author_id, is_active, created_at, updated_at`

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (title, description, type, category, author_id, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, likes, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		job.Title,
		job.Description,
		job.Type,
		job.Category,
		job.AuthorID,
		job.IsActive,
	).Scan(&job.ID, &job.Likes, &job.CreatedAt, &job.UpdatedAt)
}

func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	const query = `
        UPDATE jobs SET title=$1, description=$2, type=$3, category=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		job.Title,
		job.Description,
		job.Type,
		job.Category,
		job.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id=$1`
	var job domain.Job
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Type,
		&job.Category,
		&job.Likes,
		&job.AuthorID,
		&job.IsActive,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) ListActive(ctx context.Context) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE is_active=TRUE ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) ListByAuthor(ctx context.Context, authorID string, activeOnly bool) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE author_id=$1`
	if activeOnly {
		query += ` AND is_active=TRUE`
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) ListLikedBy(ctx context.Context, userID string) ([]domain.Job, error) {
	query := `SELECT ` + prefixColumns("j.", jobColumns) + `
        FROM jobs j JOIN job_likes l ON l.job_id = j.id
        WHERE l.user_id=$1 AND j.is_active=TRUE
        ORDER BY j.created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE jobs SET is_active=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the posting; likes, applications and correlated
// notifications go with it via the schema's cascades.
func (r *jobRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM jobs WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobRepository) HasLike(ctx context.Context, userID, jobID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM job_likes WHERE user_id=$1 AND job_id=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, jobID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *jobRepository) AddLike(ctx context.Context, userID, jobID string) error {
	const insertLike = `INSERT INTO job_likes (user_id, job_id) VALUES ($1, $2)`
	const bumpCounter = `UPDATE jobs SET likes = likes + 1 WHERE id=$1`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, insertLike, userID, jobID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, bumpCounter, jobID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *jobRepository) RemoveLike(ctx context.Context, userID, jobID string) error {
	const deleteLike = `DELETE FROM job_likes WHERE user_id=$1 AND job_id=$2`
	const dropCounter = `UPDATE jobs SET likes = GREATEST(likes - 1, 0) WHERE id=$1`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, deleteLike, userID, jobID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	if _, err := tx.Exec(ctx, dropCounter, jobID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func prefixColumns(prefix, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, part := range parts {
		parts[i] = prefix + part
	}
	return strings.Join(parts, ", ")
}

func scanJobs(rows pgx.Rows) ([]domain.Job, error) {
	var result []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID,
			&job.Title,
			&job.Description,
			&job.Type,
			&job.Category,
			&job.Likes,
			&job.AuthorID,
			&job.IsActive,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, rows.Err()
}
