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

package dto

import (
	"time"
)

// UsageRecordResponse represents a single usage log entry in API responses
type UsageRecordResponse struct {
	Endpoint       string    `json:"endpoint"`
	Method         string    `json:"method"`
	StatusCode     int       `json:"statusCode"`
	ResponseTimeMs int64     `json:"responseTimeMs"`
	Timestamp      time.Time `json:"timestamp"`
}

// UsageListResponse represents a list of usage records for an API key
type UsageListResponse struct {
	Count int                   `json:"count"`
	List  []UsageRecordResponse `json:"list"`
}

// VersionedEndpointResponse represents a version registry entry
type VersionedEndpointResponse struct {
	Path            string     `json:"path"`
	Version         string     `json:"version"`
	Deprecated      bool       `json:"deprecated"`
	DeprecationDate *time.Time `json:"deprecationDate,omitempty"`
	SunsetDate      *time.Time `json:"sunsetDate,omitempty"`
}

// DeprecateEndpointRequest represents the request body for deprecating an
// endpoint in the version registry
type DeprecateEndpointRequest struct {
	Path            string     `json:"path" binding:"required"`
	DeprecationDate *time.Time `json:"deprecationDate"`
	SunsetDate      *time.Time `json:"sunsetDate"`
}
