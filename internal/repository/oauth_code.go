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

// AuthorizationCodeRepo implements AuthorizationCodeRepository
type AuthorizationCodeRepo struct {
	db *database.DB
}

// NewAuthorizationCodeRepo creates a new authorization code repository
func NewAuthorizationCodeRepo(db *database.DB) AuthorizationCodeRepository {
	return &AuthorizationCodeRepo{db: db}
}

// CreateCode inserts a new authorization code
func (r *AuthorizationCodeRepo) CreateCode(code *model.AuthorizationCode) error {
	code.CreatedAt = time.Now()

	scopes, err := marshalStrings(code.Scopes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO oauth_authorization_codes (code, client_id, organization_uuid, user_id,
			scopes, redirect_uri, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(r.db.Rebind(query),
		code.Code, code.ClientID, code.OrganizationID, code.UserID,
		scopes, code.RedirectURI, code.ExpiresAt, code.Used, code.CreatedAt,
	)

	return err
}

// GetCode retrieves an authorization code record
func (r *AuthorizationCodeRepo) GetCode(code string) (*model.AuthorizationCode, error) {
	query := `
		SELECT code, client_id, organization_uuid, user_id, scopes, redirect_uri, expires_at, used, created_at
		FROM oauth_authorization_codes
		WHERE code = ?
	`
	rec := &model.AuthorizationCode{}
	var scopes string
	err := r.db.QueryRow(r.db.Rebind(query), code).Scan(
		&rec.Code, &rec.ClientID, &rec.OrganizationID, &rec.UserID,
		&scopes, &rec.RedirectURI, &rec.ExpiresAt, &rec.Used, &rec.CreatedAt,
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

// ClaimCode marks the code used iff it is currently unused. The conditional
// UPDATE is the compare-and-set that prevents a code from being redeemed
// twice under concurrent exchange attempts.
func (r *AuthorizationCodeRepo) ClaimCode(code string) (bool, error) {
	query := `
		UPDATE oauth_authorization_codes
		SET used = ?
		WHERE code = ? AND used = ?
	`
	result, err := r.db.Exec(r.db.Rebind(query), true, code, false)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
