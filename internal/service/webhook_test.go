/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package service

import (
	"crypto/hmac"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"developer-api/internal/constants"
	"developer-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWebhookService(t *testing.T) (*WebhookService, *fakeWebhookRepo, *fakeWebhookEventRepo) {
	t.Helper()
	webhookRepo := newFakeWebhookRepo()
	eventRepo := newFakeWebhookEventRepo()
	svc := NewWebhookService(webhookRepo, eventRepo, 5*time.Second, 5, 2, nil, zap.NewNop())
	t.Cleanup(svc.Close)
	return svc, webhookRepo, eventRepo
}

func TestRegisterWebhook(t *testing.T) {
	svc, _, _ := newTestWebhookService(t)

	tests := []struct {
		name    string
		url     string
		events  []string
		wantErr error
	}{
		{
			name:   "valid registration",
			url:    "https://hooks.example.com/incoming",
			events: []string{"content.created"},
		},
		{
			name:    "http url rejected",
			url:     "http://hooks.example.com/incoming",
			events:  []string{"content.created"},
			wantErr: constants.ErrInvalidWebhookURL,
		},
		{
			name:    "not a url",
			url:     "://bad",
			events:  []string{"content.created"},
			wantErr: constants.ErrInvalidWebhookURL,
		},
		{
			name:    "no events",
			url:     "https://hooks.example.com/incoming",
			events:  nil,
			wantErr: constants.ErrNoWebhookEvents,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			webhook, secret, err := svc.RegisterWebhook("org-1", "key-1", tt.url, tt.events)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, secret)
			assert.True(t, webhook.Active)
			assert.Zero(t, webhook.FailureCount)
		})
	}
}

func TestTriggerEventDelivers(t *testing.T) {
	svc, webhookRepo, eventRepo := newTestWebhookService(t)

	var mu sync.Mutex
	var gotBody []byte
	var gotSignature, gotEvent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotBody = body
		gotSignature = r.Header.Get(constants.WebhookSignatureHeader)
		gotEvent = r.Header.Get(constants.WebhookEventHeader)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	webhook := &model.Webhook{
		UUID:           "wh-1",
		OrganizationID: "org-1",
		URL:            server.URL,
		Secret:         "shhh",
		Events:         []string{"content.created"},
		Active:         true,
	}
	require.NoError(t, webhookRepo.CreateWebhook(webhook))

	created, err := svc.TriggerEvent("org-1", "content.created", json.RawMessage(`{"id":"c-1"}`))
	require.NoError(t, err)
	require.Len(t, created, 1)

	require.Eventually(t, func() bool {
		event := eventRepo.getEvent(created[0].UUID)
		return event != nil && event.Status == constants.WebhookEventStatusDelivered
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "content.created", gotEvent)
	assert.True(t, hmac.Equal([]byte(SignWebhookPayload("shhh", gotBody)), []byte(gotSignature)))

	var payload deliveryPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, created[0].UUID, payload.ID)
	assert.Equal(t, "content.created", payload.Event)
	assert.JSONEq(t, `{"id":"c-1"}`, string(payload.Payload))

	event := eventRepo.getEvent(created[0].UUID)
	assert.Equal(t, 1, event.Attempts)
}

func TestTriggerEventSkipsUnsubscribed(t *testing.T) {
	svc, webhookRepo, _ := newTestWebhookService(t)
	require.NoError(t, webhookRepo.CreateWebhook(&model.Webhook{
		UUID:           "wh-1",
		OrganizationID: "org-1",
		URL:            "https://hooks.example.com/incoming",
		Events:         []string{"content.created"},
		Active:         true,
	}))
	require.NoError(t, webhookRepo.CreateWebhook(&model.Webhook{
		UUID:           "wh-2",
		OrganizationID: "org-1",
		URL:            "https://hooks.example.com/other",
		Events:         []string{"content.deleted"},
		Active:         false,
	}))

	created, err := svc.TriggerEvent("org-1", "content.deleted", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestDeliveryFailureDisablesWebhook(t *testing.T) {
	svc, webhookRepo, eventRepo := newTestWebhookService(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	webhook := &model.Webhook{
		UUID:           "wh-1",
		OrganizationID: "org-1",
		URL:            server.URL,
		Secret:         "shhh",
		Events:         []string{"content.created"},
		Active:         true,
	}
	require.NoError(t, webhookRepo.CreateWebhook(webhook))

	for i := 0; i < 5; i++ {
		created, err := svc.TriggerEvent("org-1", "content.created", json.RawMessage(`{}`))
		require.NoError(t, err)
		require.Len(t, created, 1, "webhook should stay subscribed until the fifth failure")

		require.Eventually(t, func() bool {
			event := eventRepo.getEvent(created[0].UUID)
			return event != nil && event.Status == constants.WebhookEventStatusFailed
		}, 2*time.Second, 10*time.Millisecond)
	}

	stored, err := webhookRepo.GetWebhookByUUID("wh-1", "org-1")
	require.NoError(t, err)
	assert.False(t, stored.Active)
	assert.Equal(t, 5, stored.FailureCount)

	// A disabled webhook receives no further deliveries.
	created, err := svc.TriggerEvent("org-1", "content.created", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestDeliverySuccessResetsFailureCount(t *testing.T) {
	svc, webhookRepo, eventRepo := newTestWebhookService(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	webhook := &model.Webhook{
		UUID:           "wh-1",
		OrganizationID: "org-1",
		URL:            server.URL,
		Secret:         "shhh",
		Events:         []string{"content.created"},
		Active:         true,
		FailureCount:   4,
	}
	require.NoError(t, webhookRepo.CreateWebhook(webhook))

	created, err := svc.TriggerEvent("org-1", "content.created", json.RawMessage(`{}`))
	require.NoError(t, err)
	require.Len(t, created, 1)

	require.Eventually(t, func() bool {
		event := eventRepo.getEvent(created[0].UUID)
		return event != nil && event.Status == constants.WebhookEventStatusDelivered
	}, 2*time.Second, 10*time.Millisecond)

	stored, err := webhookRepo.GetWebhookByUUID("wh-1", "org-1")
	require.NoError(t, err)
	assert.Zero(t, stored.FailureCount)
	assert.NotNil(t, stored.LastTriggeredAt)
}

func TestSetWebhookActiveResetsFailures(t *testing.T) {
	svc, webhookRepo, _ := newTestWebhookService(t)
	require.NoError(t, webhookRepo.CreateWebhook(&model.Webhook{
		UUID:           "wh-1",
		OrganizationID: "org-1",
		URL:            "https://hooks.example.com/incoming",
		Events:         []string{"content.created"},
		Active:         false,
		FailureCount:   5,
	}))

	webhook, err := svc.SetWebhookActive("wh-1", "org-1", true)
	require.NoError(t, err)
	assert.True(t, webhook.Active)
	assert.Zero(t, webhook.FailureCount)

	_, err = svc.SetWebhookActive("missing", "org-1", true)
	assert.ErrorIs(t, err, constants.ErrWebhookNotFound)
}

func TestDeleteWebhook(t *testing.T) {
	svc, webhookRepo, _ := newTestWebhookService(t)
	require.NoError(t, webhookRepo.CreateWebhook(&model.Webhook{
		UUID:           "wh-1",
		OrganizationID: "org-1",
		URL:            "https://hooks.example.com/incoming",
		Events:         []string{"content.created"},
		Active:         true,
	}))

	require.NoError(t, svc.DeleteWebhook("wh-1", "org-1"))
	assert.ErrorIs(t, svc.DeleteWebhook("wh-1", "org-1"), constants.ErrWebhookNotFound)
}
