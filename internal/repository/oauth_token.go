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

// RefreshTokenRepo implements RefreshTokenRepository
type RefreshTokenRepo struct {
	db *database.DB
}

// NewRefreshTokenRepo creates a new refresh token repository
func NewRefreshTokenRepo(db *database.DB) RefreshTokenRepository {
	return &RefreshTokenRepo{db: db}
}

// CreateToken inserts a new refresh token
func (r *RefreshTokenRepo) CreateToken(token *model.RefreshToken) error {
	token.CreatedAt = time.Now()

	scopes, err := marshalStrings(token.Scopes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO oauth_refresh_tokens (token, client_id, organization_uuid, user_id,
			scopes, expires_at, revoked, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(r.db.Rebind(query),
		token.Token, token.ClientID, token.OrganizationID, token.UserID,
		scopes, token.ExpiresAt, token.Revoked, token.CreatedAt,
	)

	return err
}

// GetToken retrieves a refresh token record
func (r *RefreshTokenRepo) GetToken(token string) (*model.RefreshToken, error) {
	query := `
		SELECT token, client_id, organization_uuid, user_id, scopes, expires_at, revoked, created_at
		FROM oauth_refresh_tokens
		WHERE token = ?
	`
	rec := &model.RefreshToken{}
	var scopes string
	err := r.db.QueryRow(r.db.Rebind(query), token).Scan(
		&rec.Token, &rec.ClientID, &rec.OrganizationID, &rec.UserID,
		&scopes, &rec.ExpiresAt, &rec.Revoked, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if rec.Scopes, err = unmarshalStrings(scopes); err != nil {
		return nil, err
	}
	return rec, nil
}

// RevokeToken marks the token revoked. Revoking an already-revoked or
// unknown token is not an error.
func (r *RefreshTokenRepo) RevokeToken(token string) error {
	query := `UPDATE oauth_refresh_tokens SET revoked = ? WHERE token = ?`
	_, err := r.db.Exec(r.db.Rebind(query), true, token)
	return err
}
