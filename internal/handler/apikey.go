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

package handler

import (
	"net/http"

	"developer-api/internal/constants"
	"developer-api/internal/dto"
	"developer-api/internal/middleware"
	"developer-api/internal/model"
	"developer-api/internal/service"
	"developer-api/internal/utils"

	"github.com/gin-gonic/gin"
)

type APIKeyHandler struct {
	apiKeyService    *service.APIKeyService
	rateLimitService *service.RateLimitService
	securityService  *service.SecurityService
}

func NewAPIKeyHandler(apiKeyService *service.APIKeyService, rateLimitService *service.RateLimitService,
	securityService *service.SecurityService) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyService:    apiKeyService,
		rateLimitService: rateLimitService,
		securityService:  securityService,
	}
}

func (h *APIKeyHandler) CreateAPIKey(c *gin.Context) {
	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("validation_error", utils.FormatValidationError(err)))
		return
	}

	key, secret, err := h.apiKeyService.GenerateAPIKey(c.Param("orgId"), req.Name, req.Permissions, req.CreatedBy)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, dto.CreateAPIKeyResponse{
		APIKeyResponse: toAPIKeyResponse(key),
		Secret:         secret,
	})
}

// Authenticate exchanges an API key and secret for a bearer token.
func (h *APIKeyHandler) Authenticate(c *gin.Context) {
	var req dto.AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("validation_error", utils.FormatValidationError(err)))
		return
	}

	signed, _, err := h.apiKeyService.Authenticate(req.Key, req.Secret, c.Param("orgId"))
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, dto.AuthenticateResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: h.apiKeyService.TokenTTLSeconds(),
	})
}

func (h *APIKeyHandler) GetAPIKey(c *gin.Context) {
	key, err := h.apiKeyService.GetAPIKey(c.Param("keyId"), c.Param("orgId"))
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, toAPIKeyResponse(key))
}

func (h *APIKeyHandler) ListAPIKeys(c *gin.Context) {
	limit, offset := paginationParams(c)
	keys, err := h.apiKeyService.ListAPIKeys(c.Param("orgId"), limit, offset)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	list := make([]dto.APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		list = append(list, toAPIKeyResponse(key))
	}
	c.JSON(http.StatusOK, dto.APIKeyListResponse{Count: len(list), List: list})
}

func (h *APIKeyHandler) RevokeAPIKey(c *gin.Context) {
	if err := h.apiKeyService.RevokeAPIKey(c.Param("keyId"), c.Param("orgId")); err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIKeyHandler) UpdateLimits(c *gin.Context) {
	var req dto.UpdateLimitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("validation_error", utils.FormatValidationError(err)))
		return
	}

	key, err := h.rateLimitService.UpdateAPIKeyLimits(c.Param("keyId"), c.Param("orgId"),
		req.RequestsPerMinute, req.RequestsPerHour, req.RequestsPerDay)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, toAPIKeyResponse(key))
}

func (h *APIKeyHandler) ListUsage(c *gin.Context) {
	limit, offset := paginationParams(c)
	records, err := h.rateLimitService.ListUsage(c.Param("keyId"), c.Param("orgId"), limit, offset)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	list := make([]dto.UsageRecordResponse, 0, len(records))
	for _, record := range records {
		list = append(list, dto.UsageRecordResponse{
			Endpoint:       record.Endpoint,
			Method:         record.Method,
			StatusCode:     record.StatusCode,
			ResponseTimeMs: record.ResponseTimeMs,
			Timestamp:      record.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, dto.UsageListResponse{Count: len(list), List: list})
}

func (h *APIKeyHandler) RegisterRoutes(r *gin.Engine) {
	orgGroup := r.Group("/api/v1/organizations/:orgId")
	{
		orgGroup.POST("/tokens", h.Authenticate)
		orgGroup.POST("/api-keys", h.CreateAPIKey)

		managed := orgGroup.Group("/api-keys",
			middleware.RequireAuth(h.securityService, constants.PermissionKeysManage),
			middleware.RateLimit(h.rateLimitService, h.apiKeyService))
		{
			managed.GET("", h.ListAPIKeys)
			managed.GET("/:keyId", h.GetAPIKey)
			managed.DELETE("/:keyId", h.RevokeAPIKey)
			managed.PUT("/:keyId/limits", h.UpdateLimits)
		}

		usage := orgGroup.Group("/api-keys/:keyId/usage",
			middleware.RequireAuth(h.securityService, constants.PermissionUsageRead),
			middleware.RateLimit(h.rateLimitService, h.apiKeyService))
		{
			usage.GET("", h.ListUsage)
		}
	}
}

func toAPIKeyResponse(key *model.APIKey) dto.APIKeyResponse {
	return dto.APIKeyResponse{
		ID:                key.UUID,
		OrganizationID:    key.OrganizationID,
		Name:              key.Name,
		Key:               key.Key,
		Permissions:       key.Permissions,
		Status:            key.Status,
		CreatedBy:         key.CreatedBy,
		CreatedAt:         key.CreatedAt,
		LastUsedAt:        key.LastUsedAt,
		RequestsPerMinute: key.RequestsPerMinute,
		RequestsPerHour:   key.RequestsPerHour,
		RequestsPerDay:    key.RequestsPerDay,
	}
}
