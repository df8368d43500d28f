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

package token

import (
	"fmt"
	"time"

	"developer-api/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

// Payload is the verified content of a bearer token. KeyID identifies the
// API key or OAuth client the token was issued for; Issuer identifies which
// subsystem signed it.
type Payload struct {
	KeyID          string
	OrganizationID string
	Permissions    []string
	Issuer         string
	IssuedAt       time.Time
	ExpiresAt      time.Time
}

// Claims is the wire representation of a Payload inside a signed JWT.
type Claims struct {
	KeyID          string   `json:"keyId"`
	OrganizationID string   `json:"organizationId"`
	Permissions    []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens with a shared-secret HS256 key.
type Codec struct {
	secretKey []byte
	ttl       time.Duration
}

// NewCodec creates a token codec. ttl applies to every token the codec signs.
func NewCodec(secretKey string, ttl time.Duration) *Codec {
	return &Codec{secretKey: []byte(secretKey), ttl: ttl}
}

// TTL returns the lifetime applied to signed tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Sign issues a token for the given key/client under the given issuer
// (constants.TokenIssuerAPIKey or constants.TokenIssuerOAuth).
func (c *Codec) Sign(keyID, organizationID string, permissions []string, issuer string) (string, error) {
	now := time.Now()
	claims := Claims{
		KeyID:          keyID,
		OrganizationID: organizationID,
		Permissions:    permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the signature and expiry of a token and returns its
// payload. Any signature mismatch, malformed token, unknown issuer, or
// expired token yields constants.ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (*Payload, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, constants.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, constants.ErrInvalidToken
	}
	if claims.Issuer != constants.TokenIssuerAPIKey && claims.Issuer != constants.TokenIssuerOAuth {
		return nil, constants.ErrInvalidToken
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, constants.ErrInvalidToken
	}

	return &Payload{
		KeyID:          claims.KeyID,
		OrganizationID: claims.OrganizationID,
		Permissions:    claims.Permissions,
		Issuer:         claims.Issuer,
		IssuedAt:       claims.IssuedAt.Time,
		ExpiresAt:      claims.ExpiresAt.Time,
	}, nil
}
