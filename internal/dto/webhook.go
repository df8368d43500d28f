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

package dto

import (
	"encoding/json"
	"time"
)

// CreateWebhookRequest represents the request body for registering a webhook
type CreateWebhookRequest struct {
	URL    string   `json:"url" binding:"required,url"`
	Events []string `json:"events"`
}

// CreateWebhookResponse carries the registered webhook with its one-time
// HMAC signing secret.
type CreateWebhookResponse struct {
	WebhookResponse
	Secret string `json:"secret"`
}

// WebhookResponse represents a webhook subscription in API responses
type WebhookResponse struct {
	ID              string     `json:"id"`
	OrganizationID  string     `json:"organizationId"`
	URL             string     `json:"url"`
	Events          []string   `json:"events"`
	Active          bool       `json:"active"`
	FailureCount    int        `json:"failureCount"`
	CreatedAt       time.Time  `json:"createdAt"`
	LastTriggeredAt *time.Time `json:"lastTriggeredAt,omitempty"`
}

// WebhookListResponse represents a paginated list of webhooks
type WebhookListResponse struct {
	Count int               `json:"count"`
	List  []WebhookResponse `json:"list"`
}

// TriggerEventRequest represents the request body for publishing an event
type TriggerEventRequest struct {
	Event   string          `json:"event" binding:"required"`
	Payload json.RawMessage `json:"payload" binding:"required"`
}

// WebhookEventResponse represents one delivery audit record
type WebhookEventResponse struct {
	ID            string     `json:"id"`
	WebhookID     string     `json:"webhookId"`
	Event         string     `json:"event"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	LastAttemptAt *time.Time `json:"lastAttemptAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// WebhookEventListResponse represents a list of delivery audit records
type WebhookEventListResponse struct {
	Count int                    `json:"count"`
	List  []WebhookEventResponse `json:"list"`
}

// SetWebhookActiveRequest represents the request body for enabling or
// disabling a webhook
type SetWebhookActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
