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
	"regexp"
	"strings"

	"developer-api/internal/constants"
	"developer-api/internal/model"
	"developer-api/internal/repository"

	"github.com/google/uuid"
)

// OrganizationService manages tenant organizations and their allowed CORS
// origins.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new organization service instance
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo}
}

// CreateOrganization creates a tenant. The handle must be URL friendly and
// unique.
func (s *OrganizationService) CreateOrganization(handle, name string, allowedOrigins []string) (*model.Organization, error) {
	if !s.isURLFriendly(handle) {
		return nil, constants.ErrInvalidHandle
	}

	existingOrg, err := s.orgRepo.GetOrganizationByHandle(handle)
	if err != nil {
		return nil, err
	}
	if existingOrg != nil {
		return nil, constants.ErrOrganizationExists
	}

	if name == "" {
		name = handle
	}

	org := &model.Organization{
		UUID:           uuid.New().String(),
		Handle:         handle,
		Name:           name,
		AllowedOrigins: allowedOrigins,
	}
	if err := s.orgRepo.CreateOrganization(org); err != nil {
		return nil, err
	}
	return org, nil
}

// GetOrganizationByUUID retrieves an organization by its UUID
func (s *OrganizationService) GetOrganizationByUUID(orgID string) (*model.Organization, error) {
	org, err := s.orgRepo.GetOrganizationByUUID(orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, constants.ErrOrganizationNotFound
	}
	return org, nil
}

// GetOrganizationByHandle retrieves an organization by its handle
func (s *OrganizationService) GetOrganizationByHandle(handle string) (*model.Organization, error) {
	org, err := s.orgRepo.GetOrganizationByHandle(handle)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, constants.ErrOrganizationNotFound
	}
	return org, nil
}

// UpdateOrganization updates the display name and allowed CORS origins.
func (s *OrganizationService) UpdateOrganization(orgID, name string, allowedOrigins []string) (*model.Organization, error) {
	org, err := s.orgRepo.GetOrganizationByUUID(orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, constants.ErrOrganizationNotFound
	}

	if name != "" {
		org.Name = name
	}
	if allowedOrigins != nil {
		org.AllowedOrigins = allowedOrigins
	}
	if err := s.orgRepo.UpdateOrganization(org); err != nil {
		return nil, err
	}
	return org, nil
}

// ListOrganizations retrieves organizations with pagination
func (s *OrganizationService) ListOrganizations(limit, offset int) ([]*model.Organization, error) {
	return s.orgRepo.ListOrganizations(limit, offset)
}

func (s *OrganizationService) isURLFriendly(handle string) bool {
	// URL friendly: lowercase letters, numbers, hyphens, underscores
	// Must start with letter, no trailing special chars
	pattern := `^[a-z][a-z0-9_-]*[a-z0-9]$|^[a-z]$`
	matched, _ := regexp.MatchString(pattern, strings.ToLower(handle))
	return matched && handle == strings.ToLower(handle)
}
