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
	"errors"
	"sync"
	"time"

	"developer-api/internal/model"
)

// In-memory repository fakes backing the service tests.

type fakeOrgRepo struct {
	mu   sync.Mutex
	orgs map[string]*model.Organization
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{orgs: make(map[string]*model.Organization)}
}

func (r *fakeOrgRepo) CreateOrganization(org *model.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *org
	r.orgs[org.UUID] = &copied
	return nil
}

func (r *fakeOrgRepo) GetOrganizationByUUID(uuid string) (*model.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if org, ok := r.orgs[uuid]; ok {
		copied := *org
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeOrgRepo) GetOrganizationByHandle(handle string) (*model.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, org := range r.orgs {
		if org.Handle == handle {
			copied := *org
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOrgRepo) UpdateOrganization(org *model.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *org
	r.orgs[org.UUID] = &copied
	return nil
}

func (r *fakeOrgRepo) ListOrganizations(limit, offset int) ([]*model.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Organization
	for _, org := range r.orgs {
		copied := *org
		out = append(out, &copied)
	}
	return out, nil
}

type fakeAPIKeyRepo struct {
	mu   sync.Mutex
	keys map[string]*model.APIKey

	touchErr error
}

func newFakeAPIKeyRepo() *fakeAPIKeyRepo {
	return &fakeAPIKeyRepo{keys: make(map[string]*model.APIKey)}
}

func (r *fakeAPIKeyRepo) CreateAPIKey(key *model.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *key
	r.keys[key.UUID] = &copied
	return nil
}

func (r *fakeAPIKeyRepo) GetAPIKeyByKey(apiKey, orgID string) (*model.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range r.keys {
		if key.Key == apiKey && key.OrganizationID == orgID {
			copied := *key
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAPIKeyRepo) GetAPIKeyByUUID(uuid, orgID string) (*model.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key, ok := r.keys[uuid]; ok && key.OrganizationID == orgID {
		copied := *key
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeAPIKeyRepo) ListAPIKeys(orgID string, limit, offset int) ([]*model.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.APIKey
	for _, key := range r.keys {
		if key.OrganizationID == orgID {
			copied := *key
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAPIKeyRepo) UpdateAPIKeyStatus(uuid, orgID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key, ok := r.keys[uuid]; ok && key.OrganizationID == orgID {
		key.Status = status
	}
	return nil
}

func (r *fakeAPIKeyRepo) UpdateAPIKeyLimits(uuid, orgID string, perMinute, perHour, perDay int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key, ok := r.keys[uuid]; ok && key.OrganizationID == orgID {
		key.RequestsPerMinute = perMinute
		key.RequestsPerHour = perHour
		key.RequestsPerDay = perDay
	}
	return nil
}

func (r *fakeAPIKeyRepo) TouchLastUsed(uuid string, at time.Time) error {
	if r.touchErr != nil {
		return r.touchErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if key, ok := r.keys[uuid]; ok {
		key.LastUsedAt = &at
	}
	return nil
}

type fakeOAuthClientRepo struct {
	mu      sync.Mutex
	clients map[string]*model.OAuthClient
}

func newFakeOAuthClientRepo() *fakeOAuthClientRepo {
	return &fakeOAuthClientRepo{clients: make(map[string]*model.OAuthClient)}
}

func (r *fakeOAuthClientRepo) CreateClient(client *model.OAuthClient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *client
	r.clients[client.ClientID] = &copied
	return nil
}

func (r *fakeOAuthClientRepo) GetClientByClientID(clientID string) (*model.OAuthClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if client, ok := r.clients[clientID]; ok {
		copied := *client
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeOAuthClientRepo) GetClientByUUID(uuid, orgID string) (*model.OAuthClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, client := range r.clients {
		if client.UUID == uuid && client.OrganizationID == orgID {
			copied := *client
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOAuthClientRepo) ListClients(orgID string, limit, offset int) ([]*model.OAuthClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.OAuthClient
	for _, client := range r.clients {
		if client.OrganizationID == orgID {
			copied := *client
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOAuthClientRepo) UpdateClient(client *model.OAuthClient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *client
	r.clients[client.ClientID] = &copied
	return nil
}

type fakeAuthCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*model.AuthorizationCode
}

func newFakeAuthCodeRepo() *fakeAuthCodeRepo {
	return &fakeAuthCodeRepo{codes: make(map[string]*model.AuthorizationCode)}
}

func (r *fakeAuthCodeRepo) CreateCode(code *model.AuthorizationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *code
	r.codes[code.Code] = &copied
	return nil
}

func (r *fakeAuthCodeRepo) GetCode(code string) (*model.AuthorizationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record, ok := r.codes[code]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeAuthCodeRepo) ClaimCode(code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.codes[code]
	if !ok || record.Used {
		return false, nil
	}
	record.Used = true
	return true, nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*model.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) CreateToken(token *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *token
	r.tokens[token.Token] = &copied
	return nil
}

func (r *fakeRefreshTokenRepo) GetToken(token string) (*model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record, ok := r.tokens[token]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeRefreshTokenRepo) RevokeToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record, ok := r.tokens[token]; ok {
		record.Revoked = true
	}
	return nil
}

type fakeWebhookRepo struct {
	mu       sync.Mutex
	webhooks map[string]*model.Webhook
}

func newFakeWebhookRepo() *fakeWebhookRepo {
	return &fakeWebhookRepo{webhooks: make(map[string]*model.Webhook)}
}

func (r *fakeWebhookRepo) CreateWebhook(webhook *model.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *webhook
	r.webhooks[webhook.UUID] = &copied
	return nil
}

func (r *fakeWebhookRepo) GetWebhookByUUID(uuid, orgID string) (*model.Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if webhook, ok := r.webhooks[uuid]; ok && webhook.OrganizationID == orgID {
		copied := *webhook
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeWebhookRepo) ListWebhooks(orgID string, limit, offset int) ([]*model.Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Webhook
	for _, webhook := range r.webhooks {
		if webhook.OrganizationID == orgID {
			copied := *webhook
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeWebhookRepo) ListActiveWebhooksForEvent(orgID, event string) ([]*model.Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Webhook
	for _, webhook := range r.webhooks {
		if webhook.OrganizationID != orgID || !webhook.Active {
			continue
		}
		for _, subscribed := range webhook.Events {
			if subscribed == event {
				copied := *webhook
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeWebhookRepo) RecordDeliverySuccess(uuid string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if webhook, ok := r.webhooks[uuid]; ok {
		webhook.FailureCount = 0
		webhook.LastTriggeredAt = &at
	}
	return nil
}

func (r *fakeWebhookRepo) RecordDeliveryFailure(uuid string, maxFailures int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	webhook, ok := r.webhooks[uuid]
	if !ok {
		return 0, false, nil
	}
	webhook.FailureCount++
	if webhook.FailureCount >= maxFailures {
		webhook.Active = false
	}
	return webhook.FailureCount, webhook.Active, nil
}

func (r *fakeWebhookRepo) SetActive(uuid, orgID string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if webhook, ok := r.webhooks[uuid]; ok && webhook.OrganizationID == orgID {
		webhook.Active = active
		if active {
			webhook.FailureCount = 0
		}
	}
	return nil
}

func (r *fakeWebhookRepo) DeleteWebhook(uuid, orgID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if webhook, ok := r.webhooks[uuid]; ok && webhook.OrganizationID == orgID {
		delete(r.webhooks, uuid)
	}
	return nil
}

type fakeWebhookEventRepo struct {
	mu     sync.Mutex
	events map[string]*model.WebhookEvent
}

func newFakeWebhookEventRepo() *fakeWebhookEventRepo {
	return &fakeWebhookEventRepo{events: make(map[string]*model.WebhookEvent)}
}

func (r *fakeWebhookEventRepo) CreateEvent(event *model.WebhookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *event
	r.events[event.UUID] = &copied
	return nil
}

func (r *fakeWebhookEventRepo) UpdateEventDelivery(uuid, status string, attempts int, lastAttemptAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event, ok := r.events[uuid]; ok {
		event.Status = status
		event.Attempts = attempts
		event.LastAttemptAt = &lastAttemptAt
	}
	return nil
}

func (r *fakeWebhookEventRepo) ListEventsByWebhook(webhookUUID, orgID string, limit, offset int) ([]*model.WebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.WebhookEvent
	for _, event := range r.events {
		if event.WebhookID == webhookUUID && event.OrganizationID == orgID {
			copied := *event
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeWebhookEventRepo) getEvent(uuid string) *model.WebhookEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event, ok := r.events[uuid]; ok {
		copied := *event
		return &copied
	}
	return nil
}

type fakeUsageRepo struct {
	mu      sync.Mutex
	records []*model.UsageRecord

	countErr  error
	insertErr error
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{}
}

func (r *fakeUsageRepo) InsertUsageRecord(record *model.UsageRecord) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// uuid is the primary key in the real store; hold the fake to the same
	// contract so a missing or reused key fails here too.
	for _, existing := range r.records {
		if existing.UUID == record.UUID {
			return errors.New("usage record uuid already exists")
		}
	}
	copied := *record
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	r.records = append(r.records, &copied)
	return nil
}

func (r *fakeUsageRepo) CountUsageSince(apiKeyUUID string, since time.Time) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, record := range r.records {
		if record.APIKeyID == apiKeyUUID && record.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeUsageRepo) ListUsage(apiKeyUUID, orgID string, limit, offset int) ([]*model.UsageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.UsageRecord
	for _, record := range r.records {
		if record.APIKeyID == apiKeyUUID && record.OrganizationID == orgID {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}
