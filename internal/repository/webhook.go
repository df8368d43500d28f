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

package repository

import (
	"database/sql"
	"errors"
	"time"

	"developer-api/internal/database"
	"developer-api/internal/model"
)

const webhookColumns = `uuid, organization_uuid, api_key_uuid, url, secret, events, active,
		failure_count, created_at, updated_at, last_triggered_at`

// WebhookRepo implements WebhookRepository
type WebhookRepo struct {
	db *database.DB
}

// NewWebhookRepo creates a new webhook repository
func NewWebhookRepo(db *database.DB) WebhookRepository {
	return &WebhookRepo{db: db}
}

// CreateWebhook inserts a new webhook subscription
func (r *WebhookRepo) CreateWebhook(webhook *model.Webhook) error {
	webhook.CreatedAt = time.Now()
	webhook.UpdatedAt = time.Now()

	events, err := marshalStrings(webhook.Events)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO webhooks (uuid, organization_uuid, api_key_uuid, url, secret, events, active,
			failure_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(r.db.Rebind(query),
		webhook.UUID, webhook.OrganizationID, webhook.APIKeyID, webhook.URL, webhook.Secret, events,
		webhook.Active, webhook.FailureCount, webhook.CreatedAt, webhook.UpdatedAt,
	)

	return err
}

// GetWebhookByUUID retrieves a webhook by ID scoped to an organization
func (r *WebhookRepo) GetWebhookByUUID(uuid, orgID string) (*model.Webhook, error) {
	query := `
		SELECT ` + webhookColumns + `
		FROM webhooks
		WHERE uuid = ? AND organization_uuid = ?
	`
	webhook, err := r.scanWebhook(r.db.QueryRow(r.db.Rebind(query), uuid, orgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return webhook, nil
}

// ListWebhooks retrieves webhooks for an organization with pagination
func (r *WebhookRepo) ListWebhooks(orgID string, limit, offset int) ([]*model.Webhook, error) {
	query := `
		SELECT ` + webhookColumns + `
		FROM webhooks
		WHERE organization_uuid = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	return r.queryWebhooks(r.db.Rebind(query), orgID, limit, offset)
}

// ListActiveWebhooksForEvent retrieves the active webhooks subscribed to an
// event for an organization. Event membership is checked against the JSON
// events column in Go since the set is small.
func (r *WebhookRepo) ListActiveWebhooksForEvent(orgID, event string) ([]*model.Webhook, error) {
	query := `
		SELECT ` + webhookColumns + `
		FROM webhooks
		WHERE organization_uuid = ? AND active = ?
	`
	webhooks, err := r.queryWebhooks(r.db.Rebind(query), orgID, true)
	if err != nil {
		return nil, err
	}

	var matched []*model.Webhook
	for _, webhook := range webhooks {
		for _, subscribed := range webhook.Events {
			if subscribed == event {
				matched = append(matched, webhook)
				break
			}
		}
	}
	return matched, nil
}

// RecordDeliverySuccess resets the failure count and stamps last_triggered_at
func (r *WebhookRepo) RecordDeliverySuccess(uuid string, at time.Time) error {
	query := `
		UPDATE webhooks
		SET failure_count = 0, last_triggered_at = ?, updated_at = ?
		WHERE uuid = ?
	`
	_, err := r.db.Exec(r.db.Rebind(query), at, time.Now(), uuid)
	return err
}

// RecordDeliveryFailure increments the failure count atomically, disabling
// the webhook once the count reaches maxFailures. Returns the updated count
// and whether the webhook remains active.
func (r *WebhookRepo) RecordDeliveryFailure(uuid string, maxFailures int) (int, bool, error) {
	query := `
		UPDATE webhooks
		SET failure_count = failure_count + 1,
			active = CASE WHEN failure_count + 1 >= ? THEN ? ELSE active END,
			updated_at = ?
		WHERE uuid = ?
	`
	if _, err := r.db.Exec(r.db.Rebind(query), maxFailures, false, time.Now(), uuid); err != nil {
		return 0, false, err
	}

	var failureCount int
	var active bool
	readback := `SELECT failure_count, active FROM webhooks WHERE uuid = ?`
	if err := r.db.QueryRow(r.db.Rebind(readback), uuid).Scan(&failureCount, &active); err != nil {
		return 0, false, err
	}
	return failureCount, active, nil
}

// SetActive enables or disables a webhook; enabling resets the failure count
func (r *WebhookRepo) SetActive(uuid, orgID string, active bool) error {
	query := `
		UPDATE webhooks
		SET active = ?,
			failure_count = CASE WHEN ? THEN 0 ELSE failure_count END,
			updated_at = ?
		WHERE uuid = ? AND organization_uuid = ?
	`
	_, err := r.db.Exec(r.db.Rebind(query), active, active, time.Now(), uuid, orgID)
	return err
}

// DeleteWebhook removes a webhook subscription
func (r *WebhookRepo) DeleteWebhook(uuid, orgID string) error {
	query := `DELETE FROM webhooks WHERE uuid = ? AND organization_uuid = ?`
	_, err := r.db.Exec(r.db.Rebind(query), uuid, orgID)
	return err
}

func (r *WebhookRepo) queryWebhooks(query string, args ...interface{}) ([]*model.Webhook, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var webhooks []*model.Webhook
	for rows.Next() {
		webhook, err := r.scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, webhook)
	}
	return webhooks, rows.Err()
}

func (r *WebhookRepo) scanWebhook(row rowScanner) (*model.Webhook, error) {
	webhook := &model.Webhook{}
	var events string
	var lastTriggeredAt sql.NullTime
	err := row.Scan(
		&webhook.UUID, &webhook.OrganizationID, &webhook.APIKeyID, &webhook.URL, &webhook.Secret,
		&events, &webhook.Active, &webhook.FailureCount,
		&webhook.CreatedAt, &webhook.UpdatedAt, &lastTriggeredAt,
	)
	if err != nil {
		return nil, err
	}
	if webhook.Events, err = unmarshalStrings(events); err != nil {
		return nil, err
	}
	if lastTriggeredAt.Valid {
		webhook.LastTriggeredAt = &lastTriggeredAt.Time
	}
	return webhook, nil
}
