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

import "errors"

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrOrganizationExists   = errors.New("organization already exists with the given handle")
	ErrInvalidHandle        = errors.New("invalid handle format")
)

var (
	ErrInvalidKey    = errors.New("invalid api key")
	ErrInvalidSecret = errors.New("invalid api secret")
	ErrKeyNotActive  = errors.New("api key is not active")
	ErrKeyNotFound   = errors.New("api key not found")
	ErrInvalidToken  = errors.New("invalid or expired token")

	ErrInsufficientPermissions = errors.New("token lacks required permissions")
)

var (
	ErrClientNotFound       = errors.New("oauth client not found")
	ErrClientInactive       = errors.New("oauth client is inactive")
	ErrInvalidRedirectURI   = errors.New("redirect uri must be https or localhost")
	ErrRedirectURIMismatch  = errors.New("redirect uri does not match registered uri")
	ErrScopeNotAllowed      = errors.New("requested scope is not allowed for client")
	ErrInvalidCode          = errors.New("invalid authorization code")
	ErrCodeAlreadyUsed      = errors.New("authorization code has already been used")
	ErrCodeExpired          = errors.New("authorization code has expired")
	ErrClientIDMismatch     = errors.New("client id does not match")
	ErrInvalidClientSecret  = errors.New("invalid client secret")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrRefreshTokenRevoked  = errors.New("refresh token has been revoked")
	ErrRefreshTokenExpired  = errors.New("refresh token has expired")
	ErrUnsupportedGrantType = errors.New("unsupported grant type")
)

var (
	ErrInvalidLimits = errors.New("rate limit thresholds must be positive")
)

var (
	ErrWebhookNotFound   = errors.New("webhook not found")
	ErrInvalidWebhookURL = errors.New("webhook url must be https")
	ErrNoWebhookEvents   = errors.New("webhook must subscribe to at least one event")
)
