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

package repository

import (
	"database/sql"
	"errors"
	"time"

	"developer-api/internal/database"
	"developer-api/internal/model"
)

const apiKeyColumns = `uuid, organization_uuid, name, api_key, secret_hash, permissions, status,
		created_by, created_at, updated_at, last_used_at,
		requests_per_minute, requests_per_hour, requests_per_day`

// APIKeyRepo implements APIKeyRepository
type APIKeyRepo struct {
	db *database.DB
}

// NewAPIKeyRepo creates a new API key repository
func NewAPIKeyRepo(db *database.DB) APIKeyRepository {
	return &APIKeyRepo{db: db}
}

// CreateAPIKey inserts a new API key record
func (r *APIKeyRepo) CreateAPIKey(key *model.APIKey) error {
	key.CreatedAt = time.Now()
	key.UpdatedAt = time.Now()

	permissions, err := marshalStrings(key.Permissions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO api_keys (uuid, organization_uuid, name, api_key, secret_hash, permissions, status,
			created_by, created_at, updated_at, requests_per_minute, requests_per_hour, requests_per_day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(r.db.Rebind(query),
		key.UUID, key.OrganizationID, key.Name, key.Key, key.SecretHash, permissions, key.Status,
		key.CreatedBy, key.CreatedAt, key.UpdatedAt,
		key.RequestsPerMinute, key.RequestsPerHour, key.RequestsPerDay,
	)

	return err
}

// GetAPIKeyByKey retrieves an API key by its public key string scoped to an organization
func (r *APIKeyRepo) GetAPIKeyByKey(apiKey, orgID string) (*model.APIKey, error) {
	query := `
		SELECT ` + apiKeyColumns + `
		FROM api_keys
		WHERE api_key = ? AND organization_uuid = ?
	`
	return r.scanAPIKey(r.db.QueryRow(r.db.Rebind(query), apiKey, orgID))
}

// GetAPIKeyByUUID retrieves an API key by ID scoped to an organization
func (r *APIKeyRepo) GetAPIKeyByUUID(uuid, orgID string) (*model.APIKey, error) {
	query := `
		SELECT ` + apiKeyColumns + `
		FROM api_keys
		WHERE uuid = ? AND organization_uuid = ?
	`
	return r.scanAPIKey(r.db.QueryRow(r.db.Rebind(query), uuid, orgID))
}

// ListAPIKeys retrieves API keys for an organization with pagination
func (r *APIKeyRepo) ListAPIKeys(orgID string, limit, offset int) ([]*model.APIKey, error) {
	query := `
		SELECT ` + apiKeyColumns + `
		FROM api_keys
		WHERE organization_uuid = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.Query(r.db.Rebind(query), orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*model.APIKey
	for rows.Next() {
		key, err := r.scanAPIKeyRow(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// UpdateAPIKeyStatus sets the status of an API key
func (r *APIKeyRepo) UpdateAPIKeyStatus(uuid, orgID, status string) error {
	query := `
		UPDATE api_keys
		SET status = ?, updated_at = ?
		WHERE uuid = ? AND organization_uuid = ?
	`
	_, err := r.db.Exec(r.db.Rebind(query), status, time.Now(), uuid, orgID)
	return err
}

// UpdateAPIKeyLimits sets the three rate-limit window thresholds for a key
func (r *APIKeyRepo) UpdateAPIKeyLimits(uuid, orgID string, perMinute, perHour, perDay int) error {
	query := `
		UPDATE api_keys
		SET requests_per_minute = ?, requests_per_hour = ?, requests_per_day = ?, updated_at = ?
		WHERE uuid = ? AND organization_uuid = ?
	`
	_, err := r.db.Exec(r.db.Rebind(query), perMinute, perHour, perDay, time.Now(), uuid, orgID)
	return err
}

// TouchLastUsed stamps the last successful authentication time
func (r *APIKeyRepo) TouchLastUsed(uuid string, at time.Time) error {
	query := `UPDATE api_keys SET last_used_at = ? WHERE uuid = ?`
	_, err := r.db.Exec(r.db.Rebind(query), at, uuid)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *APIKeyRepo) scanAPIKey(row *sql.Row) (*model.APIKey, error) {
	key, err := r.scanAPIKeyRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return key, nil
}

func (r *APIKeyRepo) scanAPIKeyRow(row rowScanner) (*model.APIKey, error) {
	key := &model.APIKey{}
	var permissions string
	var lastUsedAt sql.NullTime
	err := row.Scan(
		&key.UUID, &key.OrganizationID, &key.Name, &key.Key, &key.SecretHash, &permissions, &key.Status,
		&key.CreatedBy, &key.CreatedAt, &key.UpdatedAt, &lastUsedAt,
		&key.RequestsPerMinute, &key.RequestsPerHour, &key.RequestsPerDay,
	)
	if err != nil {
		return nil, err
	}
	if key.Permissions, err = unmarshalStrings(permissions); err != nil {
		return nil, err
	}
	if lastUsedAt.Valid {
		key.LastUsedAt = &lastUsedAt.Time
	}
	return key, nil
}
