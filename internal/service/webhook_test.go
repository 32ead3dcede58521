package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/jobfinder-service/internal/config"
	"github.com/spec-kit/jobfinder-service/internal/domain"
)

func TestWebhookPushSendsUnreadCount(t *testing.T) {
	ctx := context.Background()
	notifications := newFakeNotificationRepo()
	require.NoError(t, notifications.Create(ctx, unreadFor("user-1")))
	require.NoError(t, notifications.Create(ctx, unreadFor("user-1")))

	received := make(chan unreadCountPayload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var payload unreadCountPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(notifications, config.NotificationConfig{
		WebhookURL:            server.URL,
		WebhookTimeoutSeconds: 2,
	}, nil, nil)

	notifier.Push(ctx, "user-1")

	payload := <-received
	require.Equal(t, "user-1", payload.UserUID)
	require.Equal(t, 2, payload.UnreadCount)
}

func TestWebhookPushSwallowsEndpointFailure(t *testing.T) {
	ctx := context.Background()
	notifications := newFakeNotificationRepo()
	require.NoError(t, notifications.Create(ctx, unreadFor("user-1")))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(notifications, config.NotificationConfig{
		WebhookURL:            server.URL,
		WebhookTimeoutSeconds: 2,
	}, nil, nil)

	// must not panic or propagate anything
	notifier.Push(ctx, "user-1")
}

func TestWebhookPushSkipsWhenUnconfigured(t *testing.T) {
	notifications := newFakeNotificationRepo()
	notifier := NewWebhookNotifier(notifications, config.NotificationConfig{}, nil, nil)
	notifier.Push(context.Background(), "user-1")
}

func TestWebhookPushSwallowsUnreachableEndpoint(t *testing.T) {
	notifications := newFakeNotificationRepo()
	notifier := NewWebhookNotifier(notifications, config.NotificationConfig{
		WebhookURL:            "http://127.0.0.1:1",
		WebhookTimeoutSeconds: 1,
	}, nil, nil)
	notifier.Push(context.Background(), "user-1")
}

func unreadFor(recipientID string) *domain.Notification {
	return &domain.Notification{RecipientID: recipientID, SenderID: "org-1", Message: "m"}
}
