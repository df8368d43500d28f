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
	"time"
)

// CreateAPIKeyRequest represents the request body for issuing a new API key
type CreateAPIKeyRequest struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions"`
	CreatedBy   string   `json:"createdBy"`
}

// CreateAPIKeyResponse carries the issued key with its one-time secret.
// The secret is never retrievable again.
type CreateAPIKeyResponse struct {
	APIKeyResponse
	Secret string `json:"secret"`
}

// APIKeyResponse represents an API key in API responses
type APIKeyResponse struct {
	ID                string     `json:"id"`
	OrganizationID    string     `json:"organizationId"`
	Name              string     `json:"name"`
	Key               string     `json:"key"`
	Permissions       []string   `json:"permissions"`
	Status            string     `json:"status"`
	CreatedBy         string     `json:"createdBy,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	LastUsedAt        *time.Time `json:"lastUsedAt,omitempty"`
	RequestsPerMinute int        `json:"requestsPerMinute"`
	RequestsPerHour   int        `json:"requestsPerHour"`
	RequestsPerDay    int        `json:"requestsPerDay"`
}

// APIKeyListResponse represents a paginated list of API keys
type APIKeyListResponse struct {
	Count int              `json:"count"`
	List  []APIKeyResponse `json:"list"`
}

// AuthenticateRequest represents the request body for exchanging an API key
// and secret for a bearer token
type AuthenticateRequest struct {
	Key    string `json:"key" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

// AuthenticateResponse carries the issued bearer token
type AuthenticateResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int    `json:"expiresIn"`
}

// UpdateLimitsRequest represents the request body for changing per-key rate
// limit thresholds
type UpdateLimitsRequest struct {
	RequestsPerMinute int `json:"requestsPerMinute" binding:"required"`
	RequestsPerHour   int `json:"requestsPerHour" binding:"required"`
	RequestsPerDay    int `json:"requestsPerDay" binding:"required"`
}
