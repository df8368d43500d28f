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

// RegisterClientRequest represents the request body for registering an OAuth client
type RegisterClientRequest struct {
	Name          string   `json:"name" binding:"required"`
	RedirectURIs  []string `json:"redirectUris" binding:"required,min=1"`
	AllowedScopes []string `json:"allowedScopes"`
}

// RegisterClientResponse carries the registered client with its one-time
// client secret.
type RegisterClientResponse struct {
	OAuthClientResponse
	ClientSecret string `json:"clientSecret"`
}

// OAuthClientResponse represents an OAuth client in API responses
type OAuthClientResponse struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"clientId"`
	Name          string    `json:"name"`
	RedirectURIs  []string  `json:"redirectUris"`
	AllowedScopes []string  `json:"allowedScopes"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

// OAuthClientListResponse represents a paginated list of OAuth clients
type OAuthClientListResponse struct {
	Count int                   `json:"count"`
	List  []OAuthClientResponse `json:"list"`
}

// AuthorizeRequest represents the query parameters of the authorization
// endpoint
type AuthorizeRequest struct {
	ResponseType string `form:"response_type" binding:"required"`
	ClientID     string `form:"client_id" binding:"required"`
	RedirectURI  string `form:"redirect_uri" binding:"required"`
	Scope        string `form:"scope"`
	State        string `form:"state"`
	UserID       string `form:"user_id" binding:"required"`
}

// TokenRequest represents the form body of the token endpoint. Fields used
// depend on grant_type.
type TokenRequest struct {
	GrantType    string `form:"grant_type" binding:"required"`
	Code         string `form:"code"`
	RedirectURI  string `form:"redirect_uri"`
	RefreshToken string `form:"refresh_token"`
	ClientID     string `form:"client_id" binding:"required"`
	ClientSecret string `form:"client_secret" binding:"required"`
}

// TokenResponse is the standard OAuth token endpoint response
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// RevokeTokenRequest represents the form body of the revocation endpoint
type RevokeTokenRequest struct {
	Token string `form:"token" binding:"required"`
}

// OAuthErrorResponse is the flat OAuth error shape
type OAuthErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
