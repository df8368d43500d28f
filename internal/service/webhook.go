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
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"developer-api/internal/constants"
	"developer-api/internal/model"
	"developer-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const webhookSecretEntropyBytes = 32

// DeliveryNotifier receives webhook delivery outcomes for live streaming.
type DeliveryNotifier interface {
	PublishDelivery(orgID string, event *model.WebhookEvent)
}

// deliveryPayload is the JSON body POSTed to subscriber endpoints.
type deliveryPayload struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp string          `json:"timestamp"`
}

type deliveryJob struct {
	webhook *model.Webhook
	event   *model.WebhookEvent
	body    []byte
}

// WebhookService manages webhook subscriptions and dispatches signed event
// deliveries through a bounded worker pool. Delivery is one attempt per
// trigger; repeated failures disable the subscription.
type WebhookService struct {
	webhookRepo repository.WebhookRepository
	eventRepo   repository.WebhookEventRepository
	httpClient  *http.Client
	maxFailures int
	notifier    DeliveryNotifier
	logger      *zap.Logger

	jobs chan deliveryJob
	wg   sync.WaitGroup
	once sync.Once
}

// NewWebhookService creates a webhook service and starts its delivery
// workers. Close must be called to drain and stop them.
func NewWebhookService(webhookRepo repository.WebhookRepository, eventRepo repository.WebhookEventRepository,
	deliveryTimeout time.Duration, maxFailures, workers int, notifier DeliveryNotifier, logger *zap.Logger) *WebhookService {
	s := &WebhookService{
		webhookRepo: webhookRepo,
		eventRepo:   eventRepo,
		httpClient:  &http.Client{Timeout: deliveryTimeout},
		maxFailures: maxFailures,
		notifier:    notifier,
		logger:      logger,
		jobs:        make(chan deliveryJob, 256),
	}
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// Close stops accepting deliveries and waits for in-flight ones to finish.
func (s *WebhookService) Close() {
	s.once.Do(func() {
		close(s.jobs)
	})
	s.wg.Wait()
}

// RegisterWebhook creates a webhook subscription. The URL must be HTTPS and
// at least one event is required. The HMAC signing secret is generated here
// and returned exactly once.
func (s *WebhookService) RegisterWebhook(orgID, apiKeyID, webhookURL string, events []string) (*model.Webhook, string, error) {
	parsed, err := url.Parse(webhookURL)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return nil, "", constants.ErrInvalidWebhookURL
	}
	if len(events) == 0 {
		return nil, "", constants.ErrNoWebhookEvents
	}

	secret, err := GenerateKeyMaterial("", webhookSecretEntropyBytes)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate webhook secret: %w", err)
	}

	webhook := &model.Webhook{
		UUID:           uuid.New().String(),
		OrganizationID: orgID,
		APIKeyID:       apiKeyID,
		URL:            webhookURL,
		Secret:         secret,
		Events:         events,
		Active:         true,
	}
	if err := s.webhookRepo.CreateWebhook(webhook); err != nil {
		return nil, "", fmt.Errorf("failed to store webhook: %w", err)
	}

	s.logger.Info("Registered webhook",
		zap.String("orgId", orgID),
		zap.String("webhookId", webhook.UUID),
		zap.String("url", webhookURL))

	return webhook, secret, nil
}

// TriggerEvent fans an event out to every active subscriber of that event in
// the organization. One audit record is created per subscriber and delivery
// happens asynchronously; the caller never waits on subscriber endpoints.
func (s *WebhookService) TriggerEvent(orgID, event string, payload json.RawMessage) ([]*model.WebhookEvent, error) {
	webhooks, err := s.webhookRepo.ListActiveWebhooksForEvent(orgID, event)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}

	created := make([]*model.WebhookEvent, 0, len(webhooks))
	for _, webhook := range webhooks {
		record := &model.WebhookEvent{
			UUID:           uuid.New().String(),
			WebhookID:      webhook.UUID,
			OrganizationID: orgID,
			Event:          event,
			Payload:        string(payload),
			Status:         constants.WebhookEventStatusPending,
		}
		if err := s.eventRepo.CreateEvent(record); err != nil {
			s.logger.Error("Failed to store webhook event",
				zap.String("webhookId", webhook.UUID),
				zap.Error(err))
			continue
		}

		body, err := json.Marshal(deliveryPayload{
			ID:        record.UUID,
			Event:     event,
			Payload:   payload,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			s.logger.Error("Failed to encode delivery payload",
				zap.String("eventId", record.UUID),
				zap.Error(err))
			continue
		}

		job := deliveryJob{webhook: webhook, event: record, body: body}
		select {
		case s.jobs <- job:
		default:
			// Queue is full; deliver out of band rather than block the caller.
			go s.deliver(job)
		}
		created = append(created, record)
	}
	return created, nil
}

func (s *WebhookService) worker() {
	defer s.wg.Done()
	for job := range s.jobs {
		s.deliver(job)
	}
}

// deliver makes a single signed POST attempt and records the outcome.
func (s *WebhookService) deliver(job deliveryJob) {
	now := time.Now()
	req, err := http.NewRequest(http.MethodPost, job.webhook.URL, bytes.NewReader(job.body))
	if err != nil {
		s.recordFailure(job, now)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.WebhookEventHeader, job.event.Event)
	req.Header.Set(constants.WebhookSignatureHeader, SignWebhookPayload(job.webhook.Secret, job.body))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.recordFailure(job, now)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.recordSuccess(job, now)
	} else {
		s.recordFailure(job, now)
	}
}

func (s *WebhookService) recordSuccess(job deliveryJob, at time.Time) {
	if err := s.eventRepo.UpdateEventDelivery(job.event.UUID, constants.WebhookEventStatusDelivered, job.event.Attempts+1, at); err != nil {
		s.logger.Error("Failed to update webhook event", zap.String("eventId", job.event.UUID), zap.Error(err))
	}
	if err := s.webhookRepo.RecordDeliverySuccess(job.webhook.UUID, at); err != nil {
		s.logger.Error("Failed to record webhook success", zap.String("webhookId", job.webhook.UUID), zap.Error(err))
	}
	job.event.Status = constants.WebhookEventStatusDelivered
	job.event.Attempts++
	job.event.LastAttemptAt = &at
	if s.notifier != nil {
		s.notifier.PublishDelivery(job.event.OrganizationID, job.event)
	}
}

func (s *WebhookService) recordFailure(job deliveryJob, at time.Time) {
	if err := s.eventRepo.UpdateEventDelivery(job.event.UUID, constants.WebhookEventStatusFailed, job.event.Attempts+1, at); err != nil {
		s.logger.Error("Failed to update webhook event", zap.String("eventId", job.event.UUID), zap.Error(err))
	}
	count, active, err := s.webhookRepo.RecordDeliveryFailure(job.webhook.UUID, s.maxFailures)
	if err != nil {
		s.logger.Error("Failed to record webhook failure", zap.String("webhookId", job.webhook.UUID), zap.Error(err))
	} else if !active {
		s.logger.Warn("Webhook disabled after repeated delivery failures",
			zap.String("webhookId", job.webhook.UUID),
			zap.Int("failureCount", count))
	}
	job.event.Status = constants.WebhookEventStatusFailed
	job.event.Attempts++
	job.event.LastAttemptAt = &at
	if s.notifier != nil {
		s.notifier.PublishDelivery(job.event.OrganizationID, job.event)
	}
}

// SetWebhookActive enables or disables a webhook. Enabling resets the
// failure count so a repaired endpoint starts from a clean slate.
func (s *WebhookService) SetWebhookActive(webhookID, orgID string, active bool) (*model.Webhook, error) {
	webhook, err := s.webhookRepo.GetWebhookByUUID(webhookID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}
	if webhook == nil {
		return nil, constants.ErrWebhookNotFound
	}
	if err := s.webhookRepo.SetActive(webhookID, orgID, active); err != nil {
		return nil, fmt.Errorf("failed to update webhook: %w", err)
	}
	webhook.Active = active
	if active {
		webhook.FailureCount = 0
	}
	return webhook, nil
}

// GetWebhook retrieves a webhook by ID scoped to an organization
func (s *WebhookService) GetWebhook(webhookID, orgID string) (*model.Webhook, error) {
	webhook, err := s.webhookRepo.GetWebhookByUUID(webhookID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}
	if webhook == nil {
		return nil, constants.ErrWebhookNotFound
	}
	return webhook, nil
}

// ListWebhooks retrieves webhooks for an organization with pagination
func (s *WebhookService) ListWebhooks(orgID string, limit, offset int) ([]*model.Webhook, error) {
	return s.webhookRepo.ListWebhooks(orgID, limit, offset)
}

// DeleteWebhook removes a webhook subscription
func (s *WebhookService) DeleteWebhook(webhookID, orgID string) error {
	webhook, err := s.webhookRepo.GetWebhookByUUID(webhookID, orgID)
	if err != nil {
		return fmt.Errorf("failed to get webhook: %w", err)
	}
	if webhook == nil {
		return constants.ErrWebhookNotFound
	}
	return s.webhookRepo.DeleteWebhook(webhookID, orgID)
}

// ListDeliveries returns the delivery audit records for a webhook.
func (s *WebhookService) ListDeliveries(webhookID, orgID string, limit, offset int) ([]*model.WebhookEvent, error) {
	webhook, err := s.webhookRepo.GetWebhookByUUID(webhookID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}
	if webhook == nil {
		return nil, constants.ErrWebhookNotFound
	}
	return s.eventRepo.ListEventsByWebhook(webhookID, orgID, limit, offset)
}

// SignWebhookPayload computes the signature header value for a payload:
// "sha256=" followed by the hex HMAC-SHA256 of the body under the secret.
func SignWebhookPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
