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

type VersionHandler struct {
	versionService *service.VersionService
}

func NewVersionHandler(versionService *service.VersionService) *VersionHandler {
	return &VersionHandler{versionService: versionService}
}

func (h *VersionHandler) ListEndpoints(c *gin.Context) {
	endpoints := h.versionService.ListEndpoints()
	list := make([]dto.VersionedEndpointResponse, 0, len(endpoints))
	for _, endpoint := range endpoints {
		list = append(list, toVersionedEndpointResponse(endpoint))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "list": list})
}

func (h *VersionHandler) DeprecateEndpoint(c *gin.Context) {
	var req dto.DeprecateEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("validation_error", utils.FormatValidationError(err)))
		return
	}

	h.versionService.DeprecateEndpoint(req.Path, req.DeprecationDate, req.SunsetDate)
	endpoint := h.versionService.GetEndpoint(req.Path)
	c.JSON(http.StatusOK, toVersionedEndpointResponse(endpoint))
}

func (h *VersionHandler) RegisterRoutes(r *gin.Engine) {
	versionGroup := r.Group("/api/v1/endpoints")
	{
		versionGroup.GET("", h.ListEndpoints)
		versionGroup.POST("/deprecate", h.DeprecateEndpoint)
	}
}

func toVersionedEndpointResponse(endpoint *model.VersionedEndpoint) dto.VersionedEndpointResponse {
	return dto.VersionedEndpointResponse{
		Path:            endpoint.Path,
		Version:         endpoint.Version,
		Deprecated:      endpoint.Deprecated,
		DeprecationDate: endpoint.DeprecationDate,
		SunsetDate:      endpoint.SunsetDate,
	}
}
