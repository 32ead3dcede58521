package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/jobfinder-service/internal/domain"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

type fakeNotificationRepo struct {
	rows map[string]*domain.Notification
	seq  int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: make(map[string]*domain.Notification)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	f.seq++
	n.ID = fmt.Sprintf("n-%d", f.seq)
	n.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	clone := *n
	f.rows[n.ID] = &clone
	return nil
}

func (f *fakeNotificationRepo) UpdateMessage(_ context.Context, id, message string) error {
	row, ok := f.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	f.seq++
	row.Message = message
	row.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	return nil
}

func (f *fakeNotificationRepo) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *row
	return &clone, nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string) ([]domain.Notification, error) {
	var result []domain.Notification
	for _, row := range f.rows {
		if row.RecipientID == recipientID {
			result = append(result, *row)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeNotificationRepo) FindByJobCorrelation(_ context.Context, recipientID, senderID, jobID string) (*domain.Notification, error) {
	for _, row := range f.rows {
		if row.RecipientID == recipientID && row.SenderID == senderID &&
			row.JobID != nil && *row.JobID == jobID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeNotificationRepo) FindByApplicationCorrelation(_ context.Context, recipientID, senderID, applicationID string) (*domain.Notification, error) {
	for _, row := range f.rows {
		if row.RecipientID == recipientID && row.SenderID == senderID &&
			row.ApplicationID != nil && *row.ApplicationID == applicationID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeNotificationRepo) DeleteByJobCorrelation(_ context.Context, recipientID, senderID, jobID string) error {
	for id, row := range f.rows {
		if row.RecipientID == recipientID && row.SenderID == senderID &&
			row.JobID != nil && *row.JobID == jobID {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	row, ok := f.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	row.IsRead = true
	return nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, recipientID string) (int, error) {
	count := 0
	for _, row := range f.rows {
		if row.RecipientID == recipientID && !row.IsRead {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	names map[string]string
}

func (f *fakeUserRepo) Create(context.Context, *domain.User) error { return nil }
func (f *fakeUserRepo) Update(context.Context, *domain.User) error { return nil }
func (f *fakeUserRepo) GetByID(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (f *fakeUserRepo) GetByCredential(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (f *fakeUserRepo) ResolveDisplayName(_ context.Context, id string) (string, error) {
	name, ok := f.names[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return name, nil
}

type fakeJobRepo struct {
	jobs  map[string]*domain.Job
	likes map[string]bool
}

func (f *fakeJobRepo) Create(context.Context, *domain.Job) error { return nil }
func (f *fakeJobRepo) Update(context.Context, *domain.Job) error { return nil }
func (f *fakeJobRepo) GetByID(_ context.Context, id string) (*domain.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *job
	return &clone, nil
}
func (f *fakeJobRepo) ListActive(context.Context) ([]domain.Job, error) { return nil, nil }
func (f *fakeJobRepo) ListByAuthor(context.Context, string, bool) ([]domain.Job, error) {
	return nil, nil
}
func (f *fakeJobRepo) ListLikedBy(context.Context, string) ([]domain.Job, error) { return nil, nil }
func (f *fakeJobRepo) SetActive(context.Context, string, bool) error             { return nil }
func (f *fakeJobRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.jobs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.jobs, id)
	return nil
}
func (f *fakeJobRepo) HasLike(_ context.Context, userID, jobID string) (bool, error) {
	return f.likes[userID+"/"+jobID], nil
}
func (f *fakeJobRepo) AddLike(context.Context, string, string) error    { return nil }
func (f *fakeJobRepo) RemoveLike(context.Context, string, string) error { return nil }

type fakeApplicationRepo struct {
	applications map[string]*domain.Application
}

func (f *fakeApplicationRepo) Create(context.Context, *domain.Application) error { return nil }
func (f *fakeApplicationRepo) GetByID(_ context.Context, id string) (*domain.Application, error) {
	application, ok := f.applications[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *application
	return &clone, nil
}
func (f *fakeApplicationRepo) GetByUserAndJob(context.Context, string, string) (*domain.Application, error) {
	return nil, pgx.ErrNoRows
}
func (f *fakeApplicationRepo) ListByUser(context.Context, string) ([]domain.Application, error) {
	return nil, nil
}
func (f *fakeApplicationRepo) ListByJob(context.Context, string) ([]domain.Application, error) {
	return nil, nil
}
func (f *fakeApplicationRepo) UpdateStatus(context.Context, string, domain.ApplicationStatus) error {
	return nil
}

type fakeNotifier struct {
	pushes []string
}

func (f *fakeNotifier) Push(_ context.Context, recipientID string) {
	f.pushes = append(f.pushes, recipientID)
}

type engineFixture struct {
	service       *NotificationService
	notifications *fakeNotificationRepo
	users         *fakeUserRepo
	jobs          *fakeJobRepo
	applications  *fakeApplicationRepo
	notifier      *fakeNotifier
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		notifications: newFakeNotificationRepo(),
		users:         &fakeUserRepo{names: map[string]string{}},
		jobs:          &fakeJobRepo{jobs: map[string]*domain.Job{}, likes: map[string]bool{}},
		applications:  &fakeApplicationRepo{applications: map[string]*domain.Application{}},
		notifier:      &fakeNotifier{},
	}
	f.service = NewNotificationService(NotificationDependencies{
		NotificationRepo: f.notifications,
		UserRepo:         f.users,
		JobRepo:          f.jobs,
		ApplicationRepo:  f.applications,
		Notifier:         f.notifier,
	})
	return f
}

func strptr(s string) *string { return &s }

func TestTriggerDeduplicatesJobCorrelation(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	input := TriggerInput{
		RecipientID: "org-1",
		SenderID:    "user-1",
		Message:     JobLikedMessage("Backend Engineer"),
		JobID:       strptr("job-1"),
	}
	require.NoError(t, f.service.Trigger(ctx, input))
	require.NoError(t, f.service.Trigger(ctx, input))

	require.Len(t, f.notifications.rows, 1, "re-triggering the same triple must not insert")
	require.Equal(t, []string{"org-1", "org-1"}, f.notifier.pushes)
}

func TestTriggerUpdateOverwritesMessageAndRefreshesTimestamp(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID:   "user-1",
		SenderID:      "org-1",
		Message:       ApplicationStatusMessage("Backend Engineer", domain.ApplicationStatusAccepted),
		ApplicationID: strptr("app-1"),
	}))
	var firstCreated time.Time
	for _, row := range f.notifications.rows {
		firstCreated = row.CreatedAt
	}

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID:   "user-1",
		SenderID:      "org-1",
		Message:       ApplicationStatusMessage("Backend Engineer", domain.ApplicationStatusRejected),
		ApplicationID: strptr("app-1"),
	}))

	require.Len(t, f.notifications.rows, 1)
	for _, row := range f.notifications.rows {
		require.Contains(t, row.Message, "REJECTED", "row must carry the latest decision")
		require.True(t, row.CreatedAt.After(firstCreated))
	}
}

func TestTriggerJobAndApplicationCorrelationsDoNotInterfere(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID: "org-1",
		SenderID:    "user-1",
		Message:     JobLikedMessage("Backend Engineer"),
		JobID:       strptr("ref-1"),
	}))
	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID:   "org-1",
		SenderID:      "user-1",
		Message:       NewApplicantMessage("Backend Engineer", "alice"),
		ApplicationID: strptr("ref-1"),
	}))

	require.Len(t, f.notifications.rows, 2, "same correlation id in different columns must not dedupe")
}

func TestTriggerUncorrelatedNeverDeduplicates(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	input := TriggerInput{RecipientID: "user-1", SenderID: "org-1", Message: "hello"}
	require.NoError(t, f.service.Trigger(ctx, input))
	require.NoError(t, f.service.Trigger(ctx, input))

	require.Len(t, f.notifications.rows, 2)
}

func TestTriggerRejectsDoubleCorrelation(t *testing.T) {
	f := newEngineFixture()

	err := f.service.Trigger(context.Background(), TriggerInput{
		RecipientID:   "user-1",
		SenderID:      "org-1",
		Message:       "bad",
		JobID:         strptr("job-1"),
		ApplicationID: strptr("app-1"),
	})
	require.Error(t, err)
	require.Equal(t, "INVALID_REQUEST_STATE", apperrors.ToDomainError(err).Code)
	require.Empty(t, f.notifications.rows)
}

func TestWithdrawJobLikeRemovesNotification(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID: "org-1",
		SenderID:    "user-1",
		Message:     JobLikedMessage("Backend Engineer"),
		JobID:       strptr("job-1"),
	}))
	require.NoError(t, f.service.WithdrawJobLike(ctx, "org-1", "user-1", "job-1"))

	require.Empty(t, f.notifications.rows)
	require.Equal(t, []string{"org-1", "org-1"}, f.notifier.pushes)
}

func TestListEmptyFeedReturnsSentinel(t *testing.T) {
	f := newEngineFixture()

	feed, err := f.service.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Empty(t, feed.Notifications)
	require.Equal(t, "You have no notifications yet", feed.Message)
}

func TestListSplicesSenderNameIntoJobMessages(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	f.users.names["user-1"] = "alice"

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID: "org-1",
		SenderID:    "user-1",
		Message:     JobLikedMessage("Backend Engineer"),
		JobID:       strptr("job-1"),
	}))
	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID:   "org-1",
		SenderID:      "user-1",
		Message:       NewApplicantMessage("Backend Engineer", "alice"),
		ApplicationID: strptr("app-1"),
	}))

	feed, err := f.service.List(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, feed.Notifications, 2)
	require.Empty(t, feed.Message)

	for _, view := range feed.Notifications {
		require.Equal(t, "alice", view.SenderName)
		if view.JobID != nil {
			require.Equal(t, `Your job "Backend Engineer" was liked by alice`, view.Message)
		} else {
			require.Equal(t, `New applicant for "Backend Engineer": alice`, view.Message)
		}
	}
}

func TestListReflectsRenamedSender(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	f.users.names["user-1"] = "alice"

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID: "org-1",
		SenderID:    "user-1",
		Message:     JobLikedMessage("Backend Engineer"),
		JobID:       strptr("job-1"),
	}))

	f.users.names["user-1"] = "alice-renamed"
	feed, err := f.service.List(ctx, "org-1")
	require.NoError(t, err)
	require.Equal(t, "alice-renamed", feed.Notifications[0].SenderName)
	require.Contains(t, feed.Notifications[0].Message, "alice-renamed")
}

func TestListToleratesDeletedSender(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID: "org-1",
		SenderID:    "ghost",
		Message:     JobLikedMessage("Backend Engineer"),
		JobID:       strptr("job-1"),
	}))

	feed, err := f.service.List(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, feed.Notifications, 1)
	require.Empty(t, feed.Notifications[0].SenderName)
}

func TestMarkReadNotFound(t *testing.T) {
	f := newEngineFixture()

	_, err := f.service.MarkReadAndFetchDetail(context.Background(), "missing", "user-1")
	require.Error(t, err)
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestMarkReadRequiresRecipient(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID: "org-1", SenderID: "user-1", Message: "m",
	}))
	var id string
	for k := range f.notifications.rows {
		id = k
	}

	_, err := f.service.MarkReadAndFetchDetail(ctx, id, "someone-else")
	require.Error(t, err)
	require.Equal(t, "INSUFFICIENT_PERMISSION", apperrors.ToDomainError(err).Code)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID: "org-1", SenderID: "user-1", Message: "m",
	}))
	var id string
	for k := range f.notifications.rows {
		id = k
	}

	first, err := f.service.MarkReadAndFetchDetail(ctx, id, "org-1")
	require.NoError(t, err)
	require.True(t, first.Notification.IsRead)

	second, err := f.service.MarkReadAndFetchDetail(ctx, id, "org-1")
	require.NoError(t, err)
	require.True(t, second.Notification.IsRead)
}

func TestMarkReadDetailForLikedJob(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	f.users.names["user-1"] = "alice"
	f.users.names["org-1"] = "acme"
	f.jobs.jobs["job-1"] = &domain.Job{
		ID: "job-1", Title: "Backend Engineer", Category: "engineering",
		Type: "full-time", Likes: 1, AuthorID: "org-1", IsActive: true,
	}
	f.jobs.likes["org-1/job-1"] = false

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID: "org-1",
		SenderID:    "user-1",
		Message:     JobLikedMessage("Backend Engineer"),
		JobID:       strptr("job-1"),
	}))
	var id string
	for k := range f.notifications.rows {
		id = k
	}

	detail, err := f.service.MarkReadAndFetchDetail(ctx, id, "org-1")
	require.NoError(t, err)
	require.True(t, detail.Available)
	require.NotNil(t, detail.Job)
	require.Equal(t, "acme", detail.Job.AuthorName)
	require.Equal(t, 1, detail.Job.Likes)
	require.Nil(t, detail.Application)
}

func TestMarkReadDetailForApplication(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	f.users.names["user-1"] = "alice"
	f.users.names["org-1"] = "acme"
	f.jobs.jobs["job-1"] = &domain.Job{
		ID: "job-1", Title: "Backend Engineer", AuthorID: "org-1", IsActive: true,
	}
	f.applications.applications["app-1"] = &domain.Application{
		ID: "app-1", UserID: "user-1", JobID: "job-1",
		Status: domain.ApplicationStatusPending, CoverLetter: "I would love to join.",
	}

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID:   "org-1",
		SenderID:      "user-1",
		Message:       NewApplicantMessage("Backend Engineer", "alice"),
		ApplicationID: strptr("app-1"),
	}))
	var id string
	for k := range f.notifications.rows {
		id = k
	}

	detail, err := f.service.MarkReadAndFetchDetail(ctx, id, "org-1")
	require.NoError(t, err)
	require.True(t, detail.Available)
	require.NotNil(t, detail.Application)
	require.Equal(t, "alice", detail.Application.ApplicantName)
	require.Equal(t, "I would love to join.", detail.Application.CoverLetter)
	require.NotNil(t, detail.Job)
	require.Equal(t, "Backend Engineer", detail.Job.Title)
}

func TestMarkReadDetailUnavailableForDeletedJob(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID: "org-1",
		SenderID:    "user-1",
		Message:     JobLikedMessage("Backend Engineer"),
		JobID:       strptr("job-gone"),
	}))
	var id string
	for k := range f.notifications.rows {
		id = k
	}

	detail, err := f.service.MarkReadAndFetchDetail(ctx, id, "org-1")
	require.NoError(t, err, "a missing correlate is a soft condition, not a failure")
	require.False(t, detail.Available)
	require.NotEmpty(t, detail.Reason)
	require.Nil(t, detail.Job)
	require.True(t, detail.Notification.IsRead, "the read flip still happens")
}

func TestMarkReadDetailUnavailableForInactiveJob(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()
	f.jobs.jobs["job-1"] = &domain.Job{ID: "job-1", Title: "Backend Engineer", AuthorID: "org-1", IsActive: false}

	require.NoError(t, f.service.Trigger(ctx, TriggerInput{
		RecipientID: "org-1",
		SenderID:    "user-1",
		Message:     JobLikedMessage("Backend Engineer"),
		JobID:       strptr("job-1"),
	}))
	var id string
	for k := range f.notifications.rows {
		id = k
	}

	detail, err := f.service.MarkReadAndFetchDetail(ctx, id, "org-1")
	require.NoError(t, err)
	require.False(t, detail.Available)
	require.Nil(t, detail.Job)
}

func TestStatusChangeSequenceKeepsSingleRow(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	for _, status := range []domain.ApplicationStatus{
		domain.ApplicationStatusPending,
		domain.ApplicationStatusAccepted,
		domain.ApplicationStatusRejected,
	} {
		require.NoError(t, f.service.Trigger(ctx, TriggerInput{
			RecipientID:   "user-1",
			SenderID:      "org-1",
			Message:       ApplicationStatusMessage("Backend Engineer", status),
			ApplicationID: strptr("app-1"),
		}))
	}

	require.Len(t, f.notifications.rows, 1)
	for _, row := range f.notifications.rows {
		require.Contains(t, row.Message, "REJECTED")
	}
}
