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

package model

import (
	"time"
)

// Webhook represents a per-organization webhook subscription. Outgoing
// payloads are signed with the webhook's HMAC secret. Five consecutive
// delivery failures disable the webhook until it is manually re-enabled.
type Webhook struct {
	UUID            string     `json:"uuid" db:"uuid"`
	OrganizationID  string     `json:"organizationId" db:"organization_uuid"`
	APIKeyID        string     `json:"apiKeyId" db:"api_key_uuid"`
	URL             string     `json:"url" db:"url"`
	Secret          string     `json:"-" db:"secret"`
	Events          []string   `json:"events" db:"events"`
	Active          bool       `json:"active" db:"active"`
	FailureCount    int        `json:"failureCount" db:"failure_count"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
	LastTriggeredAt *time.Time `json:"lastTriggeredAt,omitempty" db:"last_triggered_at"`
}

// TableName returns the table name for the Webhook model
func (Webhook) TableName() string {
	return "webhooks"
}

// WebhookEvent is the audit record of a single fan-out delivery to one
// subscriber. Terminal states are delivered or failed.
type WebhookEvent struct {
	UUID           string     `json:"uuid" db:"uuid"`
	WebhookID      string     `json:"webhookId" db:"webhook_uuid"`
	OrganizationID string     `json:"organizationId" db:"organization_uuid"`
	Event          string     `json:"event" db:"event"`
	Payload        string     `json:"payload" db:"payload"`
	Status         string     `json:"status" db:"status"`
	Attempts       int        `json:"attempts" db:"attempts"`
	LastAttemptAt  *time.Time `json:"lastAttemptAt,omitempty" db:"last_attempt_at"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
}

// TableName returns the table name for the WebhookEvent model
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
