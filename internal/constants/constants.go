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

package constants

// API Key Status Constants
const (
	APIKeyStatusActive   = "active"
	APIKeyStatusInactive = "inactive"
	APIKeyStatusRevoked  = "revoked"
)

// ValidAPIKeyStatuses Valid API key statuses
var ValidAPIKeyStatuses = map[string]bool{
	APIKeyStatusActive:   true,
	APIKeyStatusInactive: true,
	APIKeyStatusRevoked:  true,
}

// Token Issuer Constants used to discriminate which subsystem signed a bearer token
const (
	TokenIssuerAPIKey = "apikey"
	TokenIssuerOAuth  = "oauth"
)

// Webhook Event Status Constants
const (
	WebhookEventStatusPending   = "pending"
	WebhookEventStatusDelivered = "delivered"
	WebhookEventStatusFailed    = "failed"
)

// Webhook delivery headers
const (
	WebhookSignatureHeader = "X-Webhook-Signature"
	WebhookEventHeader     = "X-Webhook-Event"
)

// Version registry response headers
const (
	APIVersionHeader  = "X-API-Version"
	DeprecationHeader = "Deprecation"
	SunsetHeader      = "Sunset"
	LinkHeader        = "Link"
)

// DefaultAPIVersion is stamped on endpoints absent from the registry
const DefaultAPIVersion = "v1"

// Well-known permissions granted to API keys and OAuth clients. Permissions
// are free-form strings; these are the ones the platform itself checks.
const (
	PermissionContentRead   = "content:read"
	PermissionContentWrite  = "content:write"
	PermissionEventsWrite   = "events:write"
	PermissionWebhookManage = "webhooks:manage"
	PermissionKeysManage    = "keys:manage"
	PermissionUsageRead     = "usage:read"
)
