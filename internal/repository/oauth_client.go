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

const oauthClientColumns = `uuid, organization_uuid, client_id, client_secret_hash, name,
		redirect_uris, allowed_scopes, active, created_at, updated_at`

// OAuthClientRepo implements OAuthClientRepository
type OAuthClientRepo struct {
	db *database.DB
}

// NewOAuthClientRepo creates a new OAuth client repository
func NewOAuthClientRepo(db *database.DB) OAuthClientRepository {
	return &OAuthClientRepo{db: db}
}

// CreateClient inserts a new OAuth client
func (r *OAuthClientRepo) CreateClient(client *model.OAuthClient) error {
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	redirectURIs, err := marshalStrings(client.RedirectURIs)
	if err != nil {
		return err
	}
	scopes, err := marshalStrings(client.AllowedScopes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO oauth_clients (uuid, organization_uuid, client_id, client_secret_hash, name,
			redirect_uris, allowed_scopes, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(r.db.Rebind(query),
		client.UUID, client.OrganizationID, client.ClientID, client.ClientSecretHash, client.Name,
		redirectURIs, scopes, client.Active, client.CreatedAt, client.UpdatedAt,
	)

	return err
}

// GetClientByClientID retrieves an OAuth client by its public client_id
func (r *OAuthClientRepo) GetClientByClientID(clientID string) (*model.OAuthClient, error) {
	query := `
		SELECT ` + oauthClientColumns + `
		FROM oauth_clients
		WHERE client_id = ?
	`
	return r.scanClient(r.db.QueryRow(r.db.Rebind(query), clientID))
}

// GetClientByUUID retrieves an OAuth client by ID scoped to an organization
func (r *OAuthClientRepo) GetClientByUUID(uuid, orgID string) (*model.OAuthClient, error) {
	query := `
		SELECT ` + oauthClientColumns + `
		FROM oauth_clients
		WHERE uuid = ? AND organization_uuid = ?
	`
	return r.scanClient(r.db.QueryRow(r.db.Rebind(query), uuid, orgID))
}

// ListClients retrieves OAuth clients for an organization with pagination
func (r *OAuthClientRepo) ListClients(orgID string, limit, offset int) ([]*model.OAuthClient, error) {
	query := `
		SELECT ` + oauthClientColumns + `
		FROM oauth_clients
		WHERE organization_uuid = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.Query(r.db.Rebind(query), orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*model.OAuthClient
	for rows.Next() {
		client, err := r.scanClientRow(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// UpdateClient modifies an existing OAuth client
func (r *OAuthClientRepo) UpdateClient(client *model.OAuthClient) error {
	client.UpdatedAt = time.Now()

	redirectURIs, err := marshalStrings(client.RedirectURIs)
	if err != nil {
		return err
	}
	scopes, err := marshalStrings(client.AllowedScopes)
	if err != nil {
		return err
	}

	query := `
		UPDATE oauth_clients
		SET name = ?, redirect_uris = ?, allowed_scopes = ?, active = ?, updated_at = ?
		WHERE uuid = ? AND organization_uuid = ?
	`
	_, err = r.db.Exec(r.db.Rebind(query),
		client.Name, redirectURIs, scopes, client.Active, client.UpdatedAt,
		client.UUID, client.OrganizationID,
	)

	return err
}

func (r *OAuthClientRepo) scanClient(row *sql.Row) (*model.OAuthClient, error) {
	client, err := r.scanClientRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

func (r *OAuthClientRepo) scanClientRow(row rowScanner) (*model.OAuthClient, error) {
	client := &model.OAuthClient{}
	var redirectURIs, scopes string
	err := row.Scan(
		&client.UUID, &client.OrganizationID, &client.ClientID, &client.ClientSecretHash, &client.Name,
		&redirectURIs, &scopes, &client.Active, &client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if client.RedirectURIs, err = unmarshalStrings(redirectURIs); err != nil {
		return nil, err
	}
	if client.AllowedScopes, err = unmarshalStrings(scopes); err != nil {
		return nil, err
	}
	return client, nil
}
