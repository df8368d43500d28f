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
	"time"

	"developer-api/internal/constants"
	"developer-api/internal/model"
	"developer-api/internal/repository"
	"developer-api/internal/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// APIKeyService handles API key issuance, authentication, and revocation.
type APIKeyService struct {
	apiKeyRepo repository.APIKeyRepository
	orgRepo    repository.OrganizationRepository
	codec      *token.Codec
	defaults   RateLimitDefaults
	logger     *zap.Logger
}

// RateLimitDefaults holds the window thresholds applied to newly issued keys.
type RateLimitDefaults struct {
	RequestsPerMinute int
	RequestsPerHour   int
	RequestsPerDay    int
}

// NewAPIKeyService creates a new API key service instance
func NewAPIKeyService(apiKeyRepo repository.APIKeyRepository, orgRepo repository.OrganizationRepository,
	codec *token.Codec, defaults RateLimitDefaults, logger *zap.Logger) *APIKeyService {
	return &APIKeyService{
		apiKeyRepo: apiKeyRepo,
		orgRepo:    orgRepo,
		codec:      codec,
		defaults:   defaults,
		logger:     logger,
	}
}

// GenerateAPIKey creates a new API key for an organization. The raw secret
// is returned exactly once; only its hash is stored.
func (s *APIKeyService) GenerateAPIKey(orgID, name string, permissions []string, createdBy string) (*model.APIKey, string, error) {
	org, err := s.orgRepo.GetOrganizationByUUID(orgID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return nil, "", constants.ErrOrganizationNotFound
	}

	key, err := GenerateKeyMaterial(APIKeyPrefix, apiKeyEntropyBytes)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate api key: %w", err)
	}
	secret, err := GenerateKeyMaterial(APISecretPrefix, apiSecretEntropyBytes)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate api secret: %w", err)
	}

	apiKey := &model.APIKey{
		UUID:              uuid.New().String(),
		OrganizationID:    orgID,
		Name:              name,
		Key:               key,
		SecretHash:        HashSecret(secret),
		Permissions:       permissions,
		Status:            constants.APIKeyStatusActive,
		CreatedBy:         createdBy,
		RequestsPerMinute: s.defaults.RequestsPerMinute,
		RequestsPerHour:   s.defaults.RequestsPerHour,
		RequestsPerDay:    s.defaults.RequestsPerDay,
	}

	if err := s.apiKeyRepo.CreateAPIKey(apiKey); err != nil {
		return nil, "", fmt.Errorf("failed to store api key: %w", err)
	}

	s.logger.Info("Issued API key",
		zap.String("orgId", orgID),
		zap.String("keyId", apiKey.UUID),
		zap.String("name", name))

	return apiKey, secret, nil
}

// Authenticate validates a key+secret pair and issues a bearer token whose
// payload carries the key's organization and permissions.
func (s *APIKeyService) Authenticate(apiKey, apiSecret, orgID string) (string, *model.APIKey, error) {
	key, err := s.apiKeyRepo.GetAPIKeyByKey(apiKey, orgID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up api key: %w", err)
	}
	if key == nil {
		return "", nil, constants.ErrInvalidKey
	}
	if key.Status != constants.APIKeyStatusActive {
		return "", nil, constants.ErrKeyNotActive
	}
	if !SecretMatchesHash(apiSecret, key.SecretHash) {
		return "", nil, constants.ErrInvalidSecret
	}

	signed, err := s.codec.Sign(key.UUID, key.OrganizationID, key.Permissions, constants.TokenIssuerAPIKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	// Last-used tracking is observability; a failure here must not fail the
	// authentication.
	if err := s.apiKeyRepo.TouchLastUsed(key.UUID, time.Now()); err != nil {
		s.logger.Warn("Failed to update last used timestamp",
			zap.String("keyId", key.UUID), zap.Error(err))
	}

	return signed, key, nil
}

// TokenTTLSeconds returns the lifetime of issued bearer tokens in seconds.
func (s *APIKeyService) TokenTTLSeconds() int {
	return int(s.codec.TTL().Seconds())
}

// VerifyToken verifies an API-key bearer token and returns its payload.
func (s *APIKeyService) VerifyToken(tokenString string) (*token.Payload, error) {
	payload, err := s.codec.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if payload.Issuer != constants.TokenIssuerAPIKey {
		return nil, constants.ErrInvalidToken
	}
	return payload, nil
}

// GetAPIKey retrieves a single API key scoped to an organization
func (s *APIKeyService) GetAPIKey(keyID, orgID string) (*model.APIKey, error) {
	key, err := s.apiKeyRepo.GetAPIKeyByUUID(keyID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}
	if key == nil {
		return nil, constants.ErrKeyNotFound
	}
	return key, nil
}

// ListAPIKeys retrieves API keys for an organization with pagination
func (s *APIKeyService) ListAPIKeys(orgID string, limit, offset int) ([]*model.APIKey, error) {
	return s.apiKeyRepo.ListAPIKeys(orgID, limit, offset)
}

// RevokeAPIKey sets an API key's status to revoked. Revoking an already
// revoked key is a no-op, not an error.
func (s *APIKeyService) RevokeAPIKey(keyID, orgID string) error {
	key, err := s.apiKeyRepo.GetAPIKeyByUUID(keyID, orgID)
	if err != nil {
		return fmt.Errorf("failed to get api key: %w", err)
	}
	if key == nil {
		return constants.ErrKeyNotFound
	}
	if key.Status == constants.APIKeyStatusRevoked {
		return nil
	}

	if err := s.apiKeyRepo.UpdateAPIKeyStatus(keyID, orgID, constants.APIKeyStatusRevoked); err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}

	s.logger.Info("Revoked API key", zap.String("orgId", orgID), zap.String("keyId", keyID))
	return nil
}
