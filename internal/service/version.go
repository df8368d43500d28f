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
	"os"
	"sync"
	"time"

	"developer-api/internal/constants"
	"developer-api/internal/model"

	"gopkg.in/yaml.v3"
)

// deprecationTimeFormat is the UTC wire format for Deprecation and Sunset
// header values.
const deprecationTimeFormat = "2006-01-02T15:04:05.000Z"

// VersionService maps endpoint paths to API versions and deprecation
// metadata. The registry is seeded from a YAML file at startup and can be
// mutated at runtime.
type VersionService struct {
	mu       sync.RWMutex
	registry map[string]*model.VersionedEndpoint
	docsURL  string
}

// NewVersionService creates an empty version registry. docsURL is the
// deprecation documentation target advertised in Link headers.
func NewVersionService(docsURL string) *VersionService {
	return &VersionService{
		registry: make(map[string]*model.VersionedEndpoint),
		docsURL:  docsURL,
	}
}

// LoadFromFile seeds the registry from a YAML endpoint list, replacing any
// existing entries for the same paths.
func (s *VersionService) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read endpoint registry: %w", err)
	}
	var seed struct {
		Endpoints []*model.VersionedEndpoint `yaml:"endpoints"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse endpoint registry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, endpoint := range seed.Endpoints {
		if endpoint.Version == "" {
			endpoint.Version = constants.DefaultAPIVersion
		}
		s.registry[endpoint.Path] = endpoint
	}
	return nil
}

// RegisterEndpoint adds or replaces a registry entry.
func (s *VersionService) RegisterEndpoint(endpoint *model.VersionedEndpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry[endpoint.Path] = endpoint
}

// GetEndpoint returns the registry entry for a path, or nil when unknown.
func (s *VersionService) GetEndpoint(path string) *model.VersionedEndpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if endpoint, ok := s.registry[path]; ok {
		copied := *endpoint
		return &copied
	}
	return nil
}

// ListEndpoints returns all registry entries.
func (s *VersionService) ListEndpoints() []*model.VersionedEndpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	endpoints := make([]*model.VersionedEndpoint, 0, len(s.registry))
	for _, endpoint := range s.registry {
		copied := *endpoint
		endpoints = append(endpoints, &copied)
	}
	return endpoints
}

// GetVersionHeaders returns the response headers for a path. X-API-Version
// is always present; endpoints marked deprecated additionally carry
// Deprecation, optionally Sunset, and a Link to deprecation documentation.
func (s *VersionService) GetVersionHeaders(path string) map[string]string {
	s.mu.RLock()
	endpoint, ok := s.registry[path]
	s.mu.RUnlock()

	headers := map[string]string{
		constants.APIVersionHeader: constants.DefaultAPIVersion,
	}
	if !ok {
		return headers
	}

	headers[constants.APIVersionHeader] = endpoint.Version
	if endpoint.Deprecated {
		if endpoint.DeprecationDate != nil {
			headers[constants.DeprecationHeader] = endpoint.DeprecationDate.UTC().Format(deprecationTimeFormat)
		} else {
			headers[constants.DeprecationHeader] = "true"
		}
		if endpoint.SunsetDate != nil {
			headers[constants.SunsetHeader] = endpoint.SunsetDate.UTC().Format(deprecationTimeFormat)
		}
		if s.docsURL != "" {
			headers[constants.LinkHeader] = fmt.Sprintf("<%s>; rel=\"deprecation\"", s.docsURL)
		}
	}
	return headers
}

// DeprecateEndpoint marks a path deprecated in place. Unknown paths are
// registered with the default version first.
func (s *VersionService) DeprecateEndpoint(path string, deprecationDate, sunsetDate *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	endpoint, ok := s.registry[path]
	if !ok {
		endpoint = &model.VersionedEndpoint{Path: path, Version: constants.DefaultAPIVersion}
		s.registry[path] = endpoint
	}
	endpoint.Deprecated = true
	endpoint.DeprecationDate = deprecationDate
	endpoint.SunsetDate = sunsetDate
}
