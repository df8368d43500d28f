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
	"os"
	"path/filepath"
	"testing"
	"time"

	"developer-api/internal/constants"
	"developer-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersionHeaders(t *testing.T) {
	svc := NewVersionService("https://docs.example.com/deprecations")

	deprecation := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sunset := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	svc.RegisterEndpoint(&model.VersionedEndpoint{Path: "/v1/content", Version: "v1"})
	svc.RegisterEndpoint(&model.VersionedEndpoint{
		Path:            "/v1/legacy",
		Version:         "v1",
		Deprecated:      true,
		DeprecationDate: &deprecation,
		SunsetDate:      &sunset,
	})

	t.Run("current endpoint", func(t *testing.T) {
		headers := svc.GetVersionHeaders("/v1/content")
		assert.Equal(t, "v1", headers[constants.APIVersionHeader])
		assert.NotContains(t, headers, constants.DeprecationHeader)
		assert.NotContains(t, headers, constants.SunsetHeader)
	})

	t.Run("deprecated endpoint", func(t *testing.T) {
		headers := svc.GetVersionHeaders("/v1/legacy")
		assert.Equal(t, "v1", headers[constants.APIVersionHeader])
		assert.Equal(t, "2025-01-01T00:00:00.000Z", headers[constants.DeprecationHeader])
		assert.Equal(t, "2025-07-01T00:00:00.000Z", headers[constants.SunsetHeader])
		assert.Equal(t, `<https://docs.example.com/deprecations>; rel="deprecation"`, headers[constants.LinkHeader])
	})

	t.Run("unknown endpoint gets default version", func(t *testing.T) {
		headers := svc.GetVersionHeaders("/v1/unknown")
		assert.Equal(t, constants.DefaultAPIVersion, headers[constants.APIVersionHeader])
		assert.NotContains(t, headers, constants.DeprecationHeader)
	})
}

func TestGetVersionHeadersNonUTCDate(t *testing.T) {
	svc := NewVersionService("")
	loc := time.FixedZone("CET", 3600)
	deprecation := time.Date(2025, 1, 1, 1, 0, 0, 0, loc)
	svc.DeprecateEndpoint("/v1/legacy", &deprecation, nil)

	headers := svc.GetVersionHeaders("/v1/legacy")
	assert.Equal(t, "2025-01-01T00:00:00.000Z", headers[constants.DeprecationHeader])
	assert.NotContains(t, headers, constants.SunsetHeader)
}

func TestDeprecateEndpoint(t *testing.T) {
	svc := NewVersionService("")
	svc.RegisterEndpoint(&model.VersionedEndpoint{Path: "/v1/content", Version: "v2"})

	deprecation := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.DeprecateEndpoint("/v1/content", &deprecation, nil)

	endpoint := svc.GetEndpoint("/v1/content")
	require.NotNil(t, endpoint)
	assert.True(t, endpoint.Deprecated)
	assert.Equal(t, "v2", endpoint.Version)

	// Unknown paths are implicitly registered.
	svc.DeprecateEndpoint("/v1/new", nil, nil)
	endpoint = svc.GetEndpoint("/v1/new")
	require.NotNil(t, endpoint)
	assert.True(t, endpoint.Deprecated)
	assert.Equal(t, constants.DefaultAPIVersion, endpoint.Version)

	headers := svc.GetVersionHeaders("/v1/new")
	assert.Equal(t, "true", headers[constants.DeprecationHeader])
}

func TestLoadFromFile(t *testing.T) {
	seed := `endpoints:
  - path: /v1/content
    version: v1
  - path: /v1/legacy
    version: v1
    deprecated: true
    deprecationDate: 2025-01-01T00:00:00Z
    sunsetDate: 2025-07-01T00:00:00Z
  - path: /v1/unversioned
`
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	svc := NewVersionService("")
	require.NoError(t, svc.LoadFromFile(path))

	assert.Len(t, svc.ListEndpoints(), 3)

	legacy := svc.GetEndpoint("/v1/legacy")
	require.NotNil(t, legacy)
	assert.True(t, legacy.Deprecated)
	require.NotNil(t, legacy.SunsetDate)
	assert.Equal(t, "2025-07-01T00:00:00.000Z", legacy.SunsetDate.UTC().Format("2006-01-02T15:04:05.000Z"))

	// Entries without a version fall back to the default.
	unversioned := svc.GetEndpoint("/v1/unversioned")
	require.NotNil(t, unversioned)
	assert.Equal(t, constants.DefaultAPIVersion, unversioned.Version)
}

func TestLoadFromFileErrors(t *testing.T) {
	svc := NewVersionService("")
	assert.Error(t, svc.LoadFromFile("/does/not/exist.yaml"))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints: {not a list"), 0o600))
	assert.Error(t, svc.LoadFromFile(path))
}
