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

type WebhookHandler struct {
	webhookService  *service.WebhookService
	securityService *service.SecurityService
	rateLimit       gin.HandlerFunc
}

func NewWebhookHandler(webhookService *service.WebhookService, securityService *service.SecurityService,
	rateLimit gin.HandlerFunc) *WebhookHandler {
	return &WebhookHandler{
		webhookService:  webhookService,
		securityService: securityService,
		rateLimit:       rateLimit,
	}
}

func (h *WebhookHandler) CreateWebhook(c *gin.Context) {
	var req dto.CreateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("validation_error", utils.FormatValidationError(err)))
		return
	}

	payload := middleware.TokenPayloadFromContext(c)
	apiKeyID := ""
	if payload != nil {
		apiKeyID = payload.KeyID
	}

	webhook, secret, err := h.webhookService.RegisterWebhook(c.Param("orgId"), apiKeyID, req.URL, req.Events)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, dto.CreateWebhookResponse{
		WebhookResponse: toWebhookResponse(webhook),
		Secret:          secret,
	})
}

func (h *WebhookHandler) GetWebhook(c *gin.Context) {
	webhook, err := h.webhookService.GetWebhook(c.Param("webhookId"), c.Param("orgId"))
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, toWebhookResponse(webhook))
}

func (h *WebhookHandler) ListWebhooks(c *gin.Context) {
	limit, offset := paginationParams(c)
	webhooks, err := h.webhookService.ListWebhooks(c.Param("orgId"), limit, offset)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	list := make([]dto.WebhookResponse, 0, len(webhooks))
	for _, webhook := range webhooks {
		list = append(list, toWebhookResponse(webhook))
	}
	c.JSON(http.StatusOK, dto.WebhookListResponse{Count: len(list), List: list})
}

// SetStatus enables or disables a webhook. Re-enabling resets the failure
// count.
func (h *WebhookHandler) SetStatus(c *gin.Context) {
	var req dto.SetWebhookActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("validation_error", utils.FormatValidationError(err)))
		return
	}

	webhook, err := h.webhookService.SetWebhookActive(c.Param("webhookId"), c.Param("orgId"), *req.Active)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, toWebhookResponse(webhook))
}

func (h *WebhookHandler) DeleteWebhook(c *gin.Context) {
	if err := h.webhookService.DeleteWebhook(c.Param("webhookId"), c.Param("orgId")); err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WebhookHandler) ListDeliveries(c *gin.Context) {
	limit, offset := paginationParams(c)
	events, err := h.webhookService.ListDeliveries(c.Param("webhookId"), c.Param("orgId"), limit, offset)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	list := make([]dto.WebhookEventResponse, 0, len(events))
	for _, event := range events {
		list = append(list, toWebhookEventResponse(event))
	}
	c.JSON(http.StatusOK, dto.WebhookEventListResponse{Count: len(list), List: list})
}

// TriggerEvent publishes an event into the organization's webhook fan-out.
// The response reports the created delivery records; deliveries themselves
// run asynchronously.
func (h *WebhookHandler) TriggerEvent(c *gin.Context) {
	var req dto.TriggerEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("validation_error", utils.FormatValidationError(err)))
		return
	}

	events, err := h.webhookService.TriggerEvent(c.Param("orgId"), req.Event, req.Payload)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	list := make([]dto.WebhookEventResponse, 0, len(events))
	for _, event := range events {
		list = append(list, toWebhookEventResponse(event))
	}
	c.JSON(http.StatusAccepted, dto.WebhookEventListResponse{Count: len(list), List: list})
}

func (h *WebhookHandler) RegisterRoutes(r *gin.Engine) {
	orgGroup := r.Group("/api/v1/organizations/:orgId")
	{
		webhookGroup := orgGroup.Group("/webhooks",
			middleware.RequireAuth(h.securityService, constants.PermissionWebhookManage),
			h.rateLimit)
		{
			webhookGroup.POST("", h.CreateWebhook)
			webhookGroup.GET("", h.ListWebhooks)
			webhookGroup.GET("/:webhookId", h.GetWebhook)
			webhookGroup.PUT("/:webhookId/status", h.SetStatus)
			webhookGroup.DELETE("/:webhookId", h.DeleteWebhook)
			webhookGroup.GET("/:webhookId/deliveries", h.ListDeliveries)
		}

		orgGroup.POST("/events",
			middleware.RequireAuth(h.securityService, constants.PermissionEventsWrite),
			h.rateLimit,
			h.TriggerEvent)
	}
}

func toWebhookResponse(webhook *model.Webhook) dto.WebhookResponse {
	return dto.WebhookResponse{
		ID:              webhook.UUID,
		OrganizationID:  webhook.OrganizationID,
		URL:             webhook.URL,
		Events:          webhook.Events,
		Active:          webhook.Active,
		FailureCount:    webhook.FailureCount,
		CreatedAt:       webhook.CreatedAt,
		LastTriggeredAt: webhook.LastTriggeredAt,
	}
}

func toWebhookEventResponse(event *model.WebhookEvent) dto.WebhookEventResponse {
	return dto.WebhookEventResponse{
		ID:            event.UUID,
		WebhookID:     event.WebhookID,
		Event:         event.Event,
		Status:        event.Status,
		Attempts:      event.Attempts,
		LastAttemptAt: event.LastAttemptAt,
		CreatedAt:     event.CreatedAt,
	}
}
