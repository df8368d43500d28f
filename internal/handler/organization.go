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

	"developer-api/internal/dto"
	"developer-api/internal/model"
	"developer-api/internal/service"
	"developer-api/internal/utils"

	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct {
	orgService *service.OrganizationService
}

func NewOrganizationHandler(orgService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("validation_error", utils.FormatValidationError(err)))
		return
	}

	org, err := h.orgService.CreateOrganization(req.Handle, req.Name, req.AllowedOrigins)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, toOrganizationResponse(org))
}

func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, err := h.orgService.GetOrganizationByUUID(c.Param("orgId"))
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, toOrganizationResponse(org))
}

func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("validation_error", utils.FormatValidationError(err)))
		return
	}

	org, err := h.orgService.UpdateOrganization(c.Param("orgId"), req.Name, req.AllowedOrigins)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, toOrganizationResponse(org))
}

func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	limit, offset := paginationParams(c)
	orgs, err := h.orgService.ListOrganizations(limit, offset)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	list := make([]dto.OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		list = append(list, toOrganizationResponse(org))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "list": list})
}

func (h *OrganizationHandler) RegisterRoutes(r *gin.Engine) {
	orgGroup := r.Group("/api/v1/organizations")
	{
		orgGroup.POST("", h.CreateOrganization)
		orgGroup.GET("", h.ListOrganizations)
		orgGroup.GET("/:orgId", h.GetOrganization)
		orgGroup.PUT("/:orgId", h.UpdateOrganization)
	}
}

func toOrganizationResponse(org *model.Organization) dto.OrganizationResponse {
	return dto.OrganizationResponse{
		ID:             org.UUID,
		Handle:         org.Handle,
		Name:           org.Name,
		AllowedOrigins: org.AllowedOrigins,
		CreatedAt:      org.CreatedAt,
		UpdatedAt:      org.UpdatedAt,
	}
}
