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

package model

import (
	"time"
)

// APIKey represents an issued developer API key. The raw secret is never
// stored; only its SHA-256 hash. Status transitions active -> revoked are
// one-way.
type APIKey struct {
	UUID           string     `json:"uuid" db:"uuid"`
	OrganizationID string     `json:"organizationId" db:"organization_uuid"`
	Name           string     `json:"name" db:"name"`
	Key            string     `json:"key" db:"api_key"`
	SecretHash     string     `json:"-" db:"secret_hash"`
	Permissions    []string   `json:"permissions" db:"permissions"`
	Status         string     `json:"status" db:"status"`
	CreatedBy      string     `json:"createdBy" db:"created_by"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
	LastUsedAt     *time.Time `json:"lastUsedAt,omitempty" db:"last_used_at"`

	// Per-key quota thresholds for the three rate-limit windows.
	RequestsPerMinute int `json:"requestsPerMinute" db:"requests_per_minute"`
	RequestsPerHour   int `json:"requestsPerHour" db:"requests_per_hour"`
	RequestsPerDay    int `json:"requestsPerDay" db:"requests_per_day"`
}

// TableName returns the table name for the APIKey model
func (APIKey) TableName() string {
	return "api_keys"
}
