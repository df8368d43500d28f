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
	"sync"
	"testing"
	"time"

	"developer-api/internal/constants"
	"developer-api/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOAuthService(t *testing.T) (*OAuthService, *fakeOrgRepo) {
	t.Helper()
	orgRepo := newFakeOrgRepo()
	codec := token.NewCodec("test-secret-key", time.Hour)
	svc := NewOAuthService(newFakeOAuthClientRepo(), newFakeAuthCodeRepo(), newFakeRefreshTokenRepo(),
		orgRepo, codec, 10*time.Minute, 30*24*time.Hour, zap.NewNop())
	return svc, orgRepo
}

func TestRegisterClient(t *testing.T) {
	svc, orgRepo := newTestOAuthService(t)
	seedOrg(t, orgRepo, "org-1")

	tests := []struct {
		name         string
		redirectURIs []string
		wantErr      error
	}{
		{
			name:         "https redirect",
			redirectURIs: []string{"https://app.example.com/callback"},
		},
		{
			name:         "localhost redirect",
			redirectURIs: []string{"http://localhost:3000/callback"},
		},
		{
			name:         "loopback redirect",
			redirectURIs: []string{"http://127.0.0.1:8080/callback"},
		},
		{
			name:         "plain http redirect",
			redirectURIs: []string{"http://app.example.com/callback"},
			wantErr:      constants.ErrInvalidRedirectURI,
		},
		{
			name:         "one bad uri fails the set",
			redirectURIs: []string{"https://app.example.com/callback", "http://evil.example.com"},
			wantErr:      constants.ErrInvalidRedirectURI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, secret, err := svc.RegisterClient("org-1", "dashboard", tt.redirectURIs, []string{"content:read"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, secret)
			assert.True(t, client.Active)
			// The stored hash never contains the raw secret.
			assert.NotEqual(t, secret, client.ClientSecretHash)
		})
	}
}

func TestGenerateAuthorizationCode(t *testing.T) {
	svc, orgRepo := newTestOAuthService(t)
	seedOrg(t, orgRepo, "org-1")
	client, _, err := svc.RegisterClient("org-1", "dashboard",
		[]string{"https://app.example.com/callback"}, []string{"content:read", "content:write"})
	require.NoError(t, err)

	tests := []struct {
		name        string
		clientID    string
		orgID       string
		scopes      []string
		redirectURI string
		wantErr     error
	}{
		{
			name:        "valid request",
			clientID:    client.ClientID,
			orgID:       "org-1",
			scopes:      []string{"content:read"},
			redirectURI: "https://app.example.com/callback",
		},
		{
			name:        "unknown client",
			clientID:    "cid_missing",
			orgID:       "org-1",
			redirectURI: "https://app.example.com/callback",
			wantErr:     constants.ErrClientNotFound,
		},
		{
			name:        "client from another organization",
			clientID:    client.ClientID,
			orgID:       "org-2",
			redirectURI: "https://app.example.com/callback",
			wantErr:     constants.ErrClientNotFound,
		},
		{
			name:        "unregistered redirect uri",
			clientID:    client.ClientID,
			orgID:       "org-1",
			redirectURI: "https://other.example.com/callback",
			wantErr:     constants.ErrRedirectURIMismatch,
		},
		{
			name:        "scope not allowed",
			clientID:    client.ClientID,
			orgID:       "org-1",
			scopes:      []string{"admin:all"},
			redirectURI: "https://app.example.com/callback",
			wantErr:     constants.ErrScopeNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := svc.GenerateAuthorizationCode(tt.clientID, tt.orgID, "user-1", tt.scopes, tt.redirectURI)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, code.Code)
			assert.False(t, code.Used)
			assert.True(t, code.ExpiresAt.After(time.Now()))
		})
	}
}

func TestGenerateAuthorizationCodeInactiveClient(t *testing.T) {
	svc, orgRepo := newTestOAuthService(t)
	seedOrg(t, orgRepo, "org-1")
	client, _, err := svc.RegisterClient("org-1", "dashboard",
		[]string{"https://app.example.com/callback"}, []string{"content:read"})
	require.NoError(t, err)

	client.Active = false
	require.NoError(t, svc.clientRepo.UpdateClient(client))

	_, err = svc.GenerateAuthorizationCode(client.ClientID, "org-1", "user-1", nil, "https://app.example.com/callback")
	assert.ErrorIs(t, err, constants.ErrClientInactive)
}

func TestExchangeAuthorizationCode(t *testing.T) {
	svc, orgRepo := newTestOAuthService(t)
	seedOrg(t, orgRepo, "org-1")
	client, secret, err := svc.RegisterClient("org-1", "dashboard",
		[]string{"https://app.example.com/callback"}, []string{"content:read"})
	require.NoError(t, err)
	code, err := svc.GenerateAuthorizationCode(client.ClientID, "org-1", "user-1",
		[]string{"content:read"}, "https://app.example.com/callback")
	require.NoError(t, err)

	pair, err := svc.ExchangeAuthorizationCode(code.Code, client.ClientID, secret, "https://app.example.com/callback")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 3600, pair.ExpiresIn)
	assert.Equal(t, "org-1", pair.OrganizationID)

	payload, err := svc.VerifyToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, client.ClientID, payload.KeyID)
	assert.Equal(t, []string{"content:read"}, payload.Permissions)
	assert.Equal(t, constants.TokenIssuerOAuth, payload.Issuer)

	// Second exchange of the same code fails.
	_, err = svc.ExchangeAuthorizationCode(code.Code, client.ClientID, secret, "https://app.example.com/callback")
	assert.ErrorIs(t, err, constants.ErrCodeAlreadyUsed)
}

func TestExchangeAuthorizationCodeErrors(t *testing.T) {
	svc, orgRepo := newTestOAuthService(t)
	seedOrg(t, orgRepo, "org-1")
	client, secret, err := svc.RegisterClient("org-1", "dashboard",
		[]string{"https://app.example.com/callback"}, []string{"content:read"})
	require.NoError(t, err)
	other, _, err := svc.RegisterClient("org-1", "cli",
		[]string{"https://cli.example.com/callback"}, []string{"content:read"})
	require.NoError(t, err)

	code, err := svc.GenerateAuthorizationCode(client.ClientID, "org-1", "user-1",
		[]string{"content:read"}, "https://app.example.com/callback")
	require.NoError(t, err)

	tests := []struct {
		name        string
		code        string
		clientID    string
		secret      string
		redirectURI string
		wantErr     error
	}{
		{
			name:        "unknown code",
			code:        "nope",
			clientID:    client.ClientID,
			secret:      secret,
			redirectURI: "https://app.example.com/callback",
			wantErr:     constants.ErrInvalidCode,
		},
		{
			name:        "client id mismatch",
			code:        code.Code,
			clientID:    other.ClientID,
			secret:      secret,
			redirectURI: "https://app.example.com/callback",
			wantErr:     constants.ErrClientIDMismatch,
		},
		{
			name:        "redirect uri mismatch",
			code:        code.Code,
			clientID:    client.ClientID,
			secret:      secret,
			redirectURI: "https://other.example.com/callback",
			wantErr:     constants.ErrRedirectURIMismatch,
		},
		{
			name:        "wrong client secret",
			code:        code.Code,
			clientID:    client.ClientID,
			secret:      "wrong",
			redirectURI: "https://app.example.com/callback",
			wantErr:     constants.ErrInvalidClientSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ExchangeAuthorizationCode(tt.code, tt.clientID, tt.secret, tt.redirectURI)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExchangeExpiredCode(t *testing.T) {
	orgRepo := newFakeOrgRepo()
	codec := token.NewCodec("test-secret-key", time.Hour)
	svc := NewOAuthService(newFakeOAuthClientRepo(), newFakeAuthCodeRepo(), newFakeRefreshTokenRepo(),
		orgRepo, codec, -time.Minute, time.Hour, zap.NewNop())
	seedOrg(t, orgRepo, "org-1")

	client, secret, err := svc.RegisterClient("org-1", "dashboard",
		[]string{"https://app.example.com/callback"}, []string{"content:read"})
	require.NoError(t, err)
	code, err := svc.GenerateAuthorizationCode(client.ClientID, "org-1", "user-1", nil, "https://app.example.com/callback")
	require.NoError(t, err)

	_, err = svc.ExchangeAuthorizationCode(code.Code, client.ClientID, secret, "https://app.example.com/callback")
	assert.ErrorIs(t, err, constants.ErrCodeExpired)
}

// TestConcurrentExchange verifies that concurrent exchanges of the same code
// produce exactly one token pair.
func TestConcurrentExchange(t *testing.T) {
	svc, orgRepo := newTestOAuthService(t)
	seedOrg(t, orgRepo, "org-1")
	client, secret, err := svc.RegisterClient("org-1", "dashboard",
		[]string{"https://app.example.com/callback"}, []string{"content:read"})
	require.NoError(t, err)
	code, err := svc.GenerateAuthorizationCode(client.ClientID, "org-1", "user-1", nil, "https://app.example.com/callback")
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.ExchangeAuthorizationCode(code.Code, client.ClientID, secret, "https://app.example.com/callback")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, constants.ErrCodeAlreadyUsed)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestRefreshAccessToken(t *testing.T) {
	svc, orgRepo := newTestOAuthService(t)
	seedOrg(t, orgRepo, "org-1")
	client, secret, err := svc.RegisterClient("org-1", "dashboard",
		[]string{"https://app.example.com/callback"}, []string{"content:read"})
	require.NoError(t, err)
	code, err := svc.GenerateAuthorizationCode(client.ClientID, "org-1", "user-1",
		[]string{"content:read"}, "https://app.example.com/callback")
	require.NoError(t, err)
	pair, err := svc.ExchangeAuthorizationCode(code.Code, client.ClientID, secret, "https://app.example.com/callback")
	require.NoError(t, err)

	rotated, err := svc.RefreshAccessToken(pair.RefreshToken, client.ClientID, secret)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, []string{"content:read"}, rotated.Scopes)

	// The consumed refresh token is revoked by rotation.
	_, err = svc.RefreshAccessToken(pair.RefreshToken, client.ClientID, secret)
	assert.ErrorIs(t, err, constants.ErrRefreshTokenRevoked)
}

func TestRefreshAccessTokenErrors(t *testing.T) {
	svc, orgRepo := newTestOAuthService(t)
	seedOrg(t, orgRepo, "org-1")
	client, secret, err := svc.RegisterClient("org-1", "dashboard",
		[]string{"https://app.example.com/callback"}, []string{"content:read"})
	require.NoError(t, err)
	other, _, err := svc.RegisterClient("org-1", "cli",
		[]string{"https://cli.example.com/callback"}, []string{"content:read"})
	require.NoError(t, err)
	code, err := svc.GenerateAuthorizationCode(client.ClientID, "org-1", "user-1", nil, "https://app.example.com/callback")
	require.NoError(t, err)
	pair, err := svc.ExchangeAuthorizationCode(code.Code, client.ClientID, secret, "https://app.example.com/callback")
	require.NoError(t, err)

	_, err = svc.RefreshAccessToken("nope", client.ClientID, secret)
	assert.ErrorIs(t, err, constants.ErrInvalidRefreshToken)

	_, err = svc.RefreshAccessToken(pair.RefreshToken, other.ClientID, secret)
	assert.ErrorIs(t, err, constants.ErrClientIDMismatch)

	_, err = svc.RefreshAccessToken(pair.RefreshToken, client.ClientID, "wrong")
	assert.ErrorIs(t, err, constants.ErrInvalidClientSecret)
}

func TestRevokeRefreshTokenIdempotent(t *testing.T) {
	svc, orgRepo := newTestOAuthService(t)
	seedOrg(t, orgRepo, "org-1")
	client, secret, err := svc.RegisterClient("org-1", "dashboard",
		[]string{"https://app.example.com/callback"}, []string{"content:read"})
	require.NoError(t, err)
	code, err := svc.GenerateAuthorizationCode(client.ClientID, "org-1", "user-1", nil, "https://app.example.com/callback")
	require.NoError(t, err)
	pair, err := svc.ExchangeAuthorizationCode(code.Code, client.ClientID, secret, "https://app.example.com/callback")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeRefreshToken(pair.RefreshToken))
	require.NoError(t, svc.RevokeRefreshToken(pair.RefreshToken))
	require.NoError(t, svc.RevokeRefreshToken("unknown-token"))

	_, err = svc.RefreshAccessToken(pair.RefreshToken, client.ClientID, secret)
	assert.ErrorIs(t, err, constants.ErrRefreshTokenRevoked)
}
