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
	"strings"

	"developer-api/internal/constants"
	"developer-api/internal/model"
	"developer-api/internal/token"
)

// SecurityService validates bearer tokens, tenant isolation, and
// permission requirements for incoming requests.
type SecurityService struct {
	codec *token.Codec
}

// NewSecurityService creates a new security service instance
func NewSecurityService(codec *token.Codec) *SecurityService {
	return &SecurityService{codec: codec}
}

// ValidateAuthHeader extracts and verifies the bearer token from an
// Authorization header value. The scheme must be exactly "Bearer " with a
// single space; tokens from either issuer are accepted. Never returns a nil
// payload alongside a nil error.
func (s *SecurityService) ValidateAuthHeader(authHeader string) (*token.Payload, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, constants.ErrInvalidToken
	}
	tokenString := authHeader[len("Bearer "):]
	if tokenString == "" {
		return nil, constants.ErrInvalidToken
	}

	payload, err := s.codec.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	switch payload.Issuer {
	case constants.TokenIssuerAPIKey, constants.TokenIssuerOAuth:
		return payload, nil
	default:
		return nil, constants.ErrInvalidToken
	}
}

// ValidateTenantIsolation reports whether the token belongs to the requested
// organization. Comparison is exact and case-sensitive.
func (s *SecurityService) ValidateTenantIsolation(payload *token.Payload, orgID string) bool {
	if payload == nil {
		return false
	}
	return payload.OrganizationID == orgID
}

// ValidatePermissions reports whether the token carries every required
// permission. An empty requirement always passes.
func (s *SecurityService) ValidatePermissions(payload *token.Payload, required []string) bool {
	if payload == nil {
		return len(required) == 0
	}
	for _, perm := range required {
		if !containsString(payload.Permissions, perm) {
			return false
		}
	}
	return true
}

// ValidateRequest runs the full request check: authentication, then tenant
// isolation, then permissions, failing on the first violated stage. A tenant
// mismatch is reported as an invalid token rather than a permission failure
// so that cross-tenant probing cannot distinguish the two.
func (s *SecurityService) ValidateRequest(authHeader, orgID string, required []string) (*token.Payload, error) {
	payload, err := s.ValidateAuthHeader(authHeader)
	if err != nil {
		return nil, err
	}
	if !s.ValidateTenantIsolation(payload, orgID) {
		return nil, constants.ErrInvalidToken
	}
	if !s.ValidatePermissions(payload, required) {
		return nil, constants.ErrInsufficientPermissions
	}
	return payload, nil
}

// ValidateCORSOrigin reports whether the given Origin is allowed for the
// organization. Entries match either exactly or, for "*.domain" entries, any
// host that is the domain itself or a subdomain of it.
func (s *SecurityService) ValidateCORSOrigin(org *model.Organization, origin string) bool {
	if org == nil || origin == "" {
		return false
	}
	for _, allowed := range org.AllowedOrigins {
		if allowed == origin {
			return true
		}
		if strings.HasPrefix(allowed, "*.") {
			domain := allowed[2:]
			host := origin
			if idx := strings.Index(host, "://"); idx >= 0 {
				host = host[idx+3:]
			}
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return true
			}
		}
	}
	return false
}
