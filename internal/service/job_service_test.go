package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/jobfinder-service/internal/domain"
	"github.com/spec-kit/jobfinder-service/internal/events"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

func newJobFixture() (*JobService, *fakeJobRepo) {
	jobs := &fakeJobRepo{jobs: map[string]*domain.Job{}, likes: map[string]bool{}}
	svc := NewJobService(JobDependencies{
		JobRepo:    jobs,
		UserRepo:   &fakeUserRepo{names: map[string]string{}},
		Dispatcher: events.NewInMemoryDispatcher(nil),
	})
	return svc, jobs
}

func TestDeleteJobRemovesPosting(t *testing.T) {
	svc, jobs := newJobFixture()
	jobs.jobs["job-1"] = &domain.Job{ID: "job-1", Title: "Backend Engineer", AuthorID: "org-1", IsActive: true}

	require.NoError(t, svc.Delete(context.Background(), "job-1", "org-1"))
	require.Empty(t, jobs.jobs)
}

func TestDeleteJobRequiresOwner(t *testing.T) {
	svc, jobs := newJobFixture()
	jobs.jobs["job-1"] = &domain.Job{ID: "job-1", Title: "Backend Engineer", AuthorID: "org-1", IsActive: true}

	err := svc.Delete(context.Background(), "job-1", "org-2")
	require.Error(t, err)
	require.Equal(t, "INSUFFICIENT_PERMISSION", apperrors.ToDomainError(err).Code)
	require.Len(t, jobs.jobs, 1, "the posting must survive a foreign delete attempt")
}

func TestDeleteJobNotFound(t *testing.T) {
	svc, _ := newJobFixture()

	err := svc.Delete(context.Background(), "missing", "org-1")
	require.Error(t, err)
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
