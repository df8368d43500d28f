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

// OAuthClient represents a registered OAuth2 client application. The raw
// client secret is returned once at registration; only a bcrypt hash is
// stored.
type OAuthClient struct {
	UUID             string    `json:"uuid" db:"uuid"`
	OrganizationID   string    `json:"organizationId" db:"organization_uuid"`
	ClientID         string    `json:"clientId" db:"client_id"`
	ClientSecretHash string    `json:"-" db:"client_secret_hash"`
	Name             string    `json:"name" db:"name"`
	RedirectURIs     []string  `json:"redirectUris" db:"redirect_uris"`
	AllowedScopes    []string  `json:"allowedScopes" db:"allowed_scopes"`
	Active           bool      `json:"active" db:"active"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// TableName returns the table name for the OAuthClient model
func (OAuthClient) TableName() string {
	return "oauth_clients"
}

// AuthorizationCode represents a single-use code issued by the authorize
// endpoint. Exchange marks the code used atomically with token issuance.
type AuthorizationCode struct {
	Code           string    `json:"code" db:"code"`
	ClientID       string    `json:"clientId" db:"client_id"`
	OrganizationID string    `json:"organizationId" db:"organization_uuid"`
	UserID         string    `json:"userId" db:"user_id"`
	Scopes         []string  `json:"scopes" db:"scopes"`
	RedirectURI    string    `json:"redirectUri" db:"redirect_uri"`
	ExpiresAt      time.Time `json:"expiresAt" db:"expires_at"`
	Used           bool      `json:"used" db:"used"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// TableName returns the table name for the AuthorizationCode model
func (AuthorizationCode) TableName() string {
	return "oauth_authorization_codes"
}

// RefreshToken represents a rotating refresh credential. Refreshing revokes
// the consumed token and issues a replacement.
type RefreshToken struct {
	Token          string    `json:"token" db:"token"`
	ClientID       string    `json:"clientId" db:"client_id"`
	OrganizationID string    `json:"organizationId" db:"organization_uuid"`
	UserID         string    `json:"userId" db:"user_id"`
	Scopes         []string  `json:"scopes" db:"scopes"`
	ExpiresAt      time.Time `json:"expiresAt" db:"expires_at"`
	Revoked        bool      `json:"revoked" db:"revoked"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// TableName returns the table name for the RefreshToken model
func (RefreshToken) TableName() string {
	return "oauth_refresh_tokens"
}
