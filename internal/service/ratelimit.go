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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RateLimitResult reports the outcome of a rate limit check, including which
// window tripped when the request is denied.
type RateLimitResult struct {
	Allowed   bool
	Window    string
	Limit     int
	Current   int
	RetryAt   time.Time
	CheckedAt time.Time
}

// RateLimitService enforces per-key sliding window limits over recorded
// usage. Storage errors never block a request: the limiter fails open.
type RateLimitService struct {
	usageRepo  repository.UsageRepository
	apiKeyRepo repository.APIKeyRepository
	logger     *zap.Logger
}

// NewRateLimitService creates a new rate limit service instance
func NewRateLimitService(usageRepo repository.UsageRepository, apiKeyRepo repository.APIKeyRepository, logger *zap.Logger) *RateLimitService {
	return &RateLimitService{
		usageRepo:  usageRepo,
		apiKeyRepo: apiKeyRepo,
		logger:     logger,
	}
}

// CheckRateLimit evaluates the minute, hour, and day windows for a key, in
// that order, and denies on the first exceeded window. Any storage error is
// logged and the request is allowed.
func (s *RateLimitService) CheckRateLimit(key *model.APIKey) *RateLimitResult {
	now := time.Now()
	windows := []struct {
		name     string
		duration time.Duration
		limit    int
	}{
		{"minute", time.Minute, key.RequestsPerMinute},
		{"hour", time.Hour, key.RequestsPerHour},
		{"day", 24 * time.Hour, key.RequestsPerDay},
	}

	for _, window := range windows {
		count, err := s.usageRepo.CountUsageSince(key.UUID, now.Add(-window.duration))
		if err != nil {
			s.logger.Warn("Rate limit check failed, allowing request",
				zap.String("keyId", key.UUID),
				zap.String("window", window.name),
				zap.Error(err))
			return &RateLimitResult{Allowed: true, CheckedAt: now}
		}
		if count >= window.limit {
			return &RateLimitResult{
				Allowed:   false,
				Window:    window.name,
				Limit:     window.limit,
				Current:   count,
				RetryAt:   now.Add(window.duration),
				CheckedAt: now,
			}
		}
	}

	return &RateLimitResult{Allowed: true, CheckedAt: now}
}

// RecordUsage appends a usage record for a served request. Failures are
// logged and swallowed so accounting never breaks request handling.
func (s *RateLimitService) RecordUsage(keyID, orgID, endpoint, method string, statusCode int, responseTimeMs int64) {
	record := &model.UsageRecord{
		UUID:           uuid.New().String(),
		APIKeyID:       keyID,
		OrganizationID: orgID,
		Endpoint:       endpoint,
		Method:         method,
		StatusCode:     statusCode,
		ResponseTimeMs: responseTimeMs,
	}
	if err := s.usageRepo.InsertUsageRecord(record); err != nil {
		s.logger.Warn("Failed to record usage",
			zap.String("keyId", keyID),
			zap.Error(err))
	}
}

// UpdateAPIKeyLimits replaces the per-window thresholds for a key. All three
// values must be positive.
func (s *RateLimitService) UpdateAPIKeyLimits(keyID, orgID string, perMinute, perHour, perDay int) (*model.APIKey, error) {
	if perMinute <= 0 || perHour <= 0 || perDay <= 0 {
		return nil, constants.ErrInvalidLimits
	}

	key, err := s.apiKeyRepo.GetAPIKeyByUUID(keyID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}
	if key == nil {
		return nil, constants.ErrKeyNotFound
	}

	if err := s.apiKeyRepo.UpdateAPIKeyLimits(keyID, orgID, perMinute, perHour, perDay); err != nil {
		return nil, fmt.Errorf("failed to update api key limits: %w", err)
	}

	key.RequestsPerMinute = perMinute
	key.RequestsPerHour = perHour
	key.RequestsPerDay = perDay
	return key, nil
}

// ListUsage returns usage records for an API key with pagination.
func (s *RateLimitService) ListUsage(keyID, orgID string, limit, offset int) ([]*model.UsageRecord, error) {
	return s.usageRepo.ListUsage(keyID, orgID, limit, offset)
}
