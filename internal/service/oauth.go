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
	"fmt"
	"net/url"
	"strings"
	"time"

	"developer-api/internal/constants"
	"developer-api/internal/model"
	"developer-api/internal/repository"
	"developer-api/internal/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	oauthClientIDPrefix = "cid_"

	clientIDEntropyBytes     = 16
	clientSecretEntropyBytes = 32
	authCodeEntropyBytes     = 32
	refreshTokenEntropyBytes = 48
)

// TokenPair is the result of a successful code exchange or refresh.
type TokenPair struct {
	AccessToken    string
	RefreshToken   string
	ExpiresIn      int
	Scopes         []string
	OrganizationID string
	UserID         string
}

// OAuthService implements the authorization-code grant: client registration,
// code issuance, code exchange, and refresh token rotation.
type OAuthService struct {
	clientRepo  repository.OAuthClientRepository
	codeRepo    repository.AuthorizationCodeRepository
	refreshRepo repository.RefreshTokenRepository
	orgRepo     repository.OrganizationRepository
	codec       *token.Codec
	codeTTL     time.Duration
	refreshTTL  time.Duration
	logger      *zap.Logger
}

// NewOAuthService creates a new OAuth service instance
func NewOAuthService(clientRepo repository.OAuthClientRepository, codeRepo repository.AuthorizationCodeRepository,
	refreshRepo repository.RefreshTokenRepository, orgRepo repository.OrganizationRepository,
	codec *token.Codec, codeTTL, refreshTTL time.Duration, logger *zap.Logger) *OAuthService {
	return &OAuthService{
		clientRepo:  clientRepo,
		codeRepo:    codeRepo,
		refreshRepo: refreshRepo,
		orgRepo:     orgRepo,
		codec:       codec,
		codeTTL:     codeTTL,
		refreshTTL:  refreshTTL,
		logger:      logger,
	}
}

// RegisterClient registers a new OAuth client. Every redirect URI must be
// HTTPS or localhost. The raw client secret is returned exactly once.
func (s *OAuthService) RegisterClient(orgID, name string, redirectURIs, allowedScopes []string) (*model.OAuthClient, string, error) {
	org, err := s.orgRepo.GetOrganizationByUUID(orgID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return nil, "", constants.ErrOrganizationNotFound
	}

	for _, redirectURI := range redirectURIs {
		if !isAllowedRedirectURI(redirectURI) {
			return nil, "", constants.ErrInvalidRedirectURI
		}
	}

	clientID, err := GenerateKeyMaterial(oauthClientIDPrefix, clientIDEntropyBytes)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate client id: %w", err)
	}
	clientSecret, err := GenerateKeyMaterial("", clientSecretEntropyBytes)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate client secret: %w", err)
	}
	secretHash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash client secret: %w", err)
	}

	client := &model.OAuthClient{
		UUID:             uuid.New().String(),
		OrganizationID:   orgID,
		ClientID:         clientID,
		ClientSecretHash: string(secretHash),
		Name:             name,
		RedirectURIs:     redirectURIs,
		AllowedScopes:    allowedScopes,
		Active:           true,
	}

	if err := s.clientRepo.CreateClient(client); err != nil {
		return nil, "", fmt.Errorf("failed to store oauth client: %w", err)
	}

	s.logger.Info("Registered OAuth client",
		zap.String("orgId", orgID),
		zap.String("clientId", clientID),
		zap.String("name", name))

	return client, clientSecret, nil
}

// GenerateAuthorizationCode issues a single-use authorization code for a
// client. The redirect URI must literally match a registered entry and every
// requested scope must be allowed for the client.
func (s *OAuthService) GenerateAuthorizationCode(clientID, orgID, userID string, scopes []string, redirectURI string) (*model.AuthorizationCode, error) {
	client, err := s.clientRepo.GetClientByClientID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}
	if client == nil || client.OrganizationID != orgID {
		return nil, constants.ErrClientNotFound
	}
	if !client.Active {
		return nil, constants.ErrClientInactive
	}
	if !containsString(client.RedirectURIs, redirectURI) {
		return nil, constants.ErrRedirectURIMismatch
	}
	for _, scope := range scopes {
		if !containsString(client.AllowedScopes, scope) {
			return nil, constants.ErrScopeNotAllowed
		}
	}

	code, err := GenerateKeyMaterial("", authCodeEntropyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate authorization code: %w", err)
	}

	record := &model.AuthorizationCode{
		Code:           code,
		ClientID:       clientID,
		OrganizationID: orgID,
		UserID:         userID,
		Scopes:         scopes,
		RedirectURI:    redirectURI,
		ExpiresAt:      time.Now().Add(s.codeTTL),
		Used:           false,
	}

	if err := s.codeRepo.CreateCode(record); err != nil {
		return nil, fmt.Errorf("failed to store authorization code: %w", err)
	}

	return record, nil
}

// ExchangeAuthorizationCode redeems a code for an access+refresh token pair.
// The code is marked used atomically with issuance; a concurrent second
// exchange of the same code loses the claim and fails with CodeAlreadyUsed.
func (s *OAuthService) ExchangeAuthorizationCode(code, clientID, clientSecret, redirectURI string) (*TokenPair, error) {
	record, err := s.codeRepo.GetCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up authorization code: %w", err)
	}
	if record == nil {
		return nil, constants.ErrInvalidCode
	}
	if record.Used {
		return nil, constants.ErrCodeAlreadyUsed
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, constants.ErrCodeExpired
	}
	if record.ClientID != clientID {
		return nil, constants.ErrClientIDMismatch
	}
	if record.RedirectURI != redirectURI {
		return nil, constants.ErrRedirectURIMismatch
	}

	client, err := s.clientRepo.GetClientByClientID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}
	if client == nil {
		return nil, constants.ErrClientNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(client.ClientSecretHash), []byte(clientSecret)) != nil {
		return nil, constants.ErrInvalidClientSecret
	}

	// Compare-and-set on the code record: exactly one concurrent exchange
	// may win the claim.
	claimed, err := s.codeRepo.ClaimCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to claim authorization code: %w", err)
	}
	if !claimed {
		return nil, constants.ErrCodeAlreadyUsed
	}

	return s.issueTokenPair(client, record.OrganizationID, record.UserID, record.Scopes)
}

// RefreshAccessToken redeems a refresh token for a new token pair and
// revokes the consumed refresh token (rotation, not reuse).
func (s *OAuthService) RefreshAccessToken(refreshToken, clientID, clientSecret string) (*TokenPair, error) {
	record, err := s.refreshRepo.GetToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if record == nil {
		return nil, constants.ErrInvalidRefreshToken
	}
	if record.Revoked {
		return nil, constants.ErrRefreshTokenRevoked
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, constants.ErrRefreshTokenExpired
	}
	if record.ClientID != clientID {
		return nil, constants.ErrClientIDMismatch
	}

	client, err := s.clientRepo.GetClientByClientID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}
	if client == nil {
		return nil, constants.ErrClientNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(client.ClientSecretHash), []byte(clientSecret)) != nil {
		return nil, constants.ErrInvalidClientSecret
	}

	if err := s.refreshRepo.RevokeToken(refreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokenPair(client, record.OrganizationID, record.UserID, record.Scopes)
}

// RevokeRefreshToken marks a refresh token revoked; idempotent.
func (s *OAuthService) RevokeRefreshToken(refreshToken string) error {
	if err := s.refreshRepo.RevokeToken(refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// VerifyToken verifies an OAuth bearer token and returns its payload.
func (s *OAuthService) VerifyToken(tokenString string) (*token.Payload, error) {
	payload, err := s.codec.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if payload.Issuer != constants.TokenIssuerOAuth {
		return nil, constants.ErrInvalidToken
	}
	return payload, nil
}

// GetClient retrieves a client by ID scoped to an organization
func (s *OAuthService) GetClient(clientUUID, orgID string) (*model.OAuthClient, error) {
	client, err := s.clientRepo.GetClientByUUID(clientUUID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth client: %w", err)
	}
	if client == nil {
		return nil, constants.ErrClientNotFound
	}
	return client, nil
}

// ListClients retrieves OAuth clients for an organization with pagination
func (s *OAuthService) ListClients(orgID string, limit, offset int) ([]*model.OAuthClient, error) {
	return s.clientRepo.ListClients(orgID, limit, offset)
}

func (s *OAuthService) issueTokenPair(client *model.OAuthClient, orgID, userID string, scopes []string) (*TokenPair, error) {
	accessToken, err := s.codec.Sign(client.ClientID, orgID, scopes, constants.TokenIssuerOAuth)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshValue, err := GenerateKeyMaterial("", refreshTokenEntropyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refresh := &model.RefreshToken{
		Token:          refreshValue,
		ClientID:       client.ClientID,
		OrganizationID: orgID,
		UserID:         userID,
		Scopes:         scopes,
		ExpiresAt:      time.Now().Add(s.refreshTTL),
		Revoked:        false,
	}
	if err := s.refreshRepo.CreateToken(refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:    accessToken,
		RefreshToken:   refreshValue,
		ExpiresIn:      int(s.codec.TTL().Seconds()),
		Scopes:         scopes,
		OrganizationID: orgID,
		UserID:         userID,
	}, nil
}

// isAllowedRedirectURI reports whether the URI is HTTPS or points at
// localhost.
func isAllowedRedirectURI(redirectURI string) bool {
	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return false
	}
	if parsed.Scheme == "https" {
		return true
	}
	if parsed.Scheme == "http" {
		host := parsed.Hostname()
		return host == "localhost" || host == "127.0.0.1" || strings.HasSuffix(host, ".localhost")
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
