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
	"errors"
	"net/http"
	"net/url"
	"strings"

	"developer-api/internal/constants"
	"developer-api/internal/dto"
	"developer-api/internal/middleware"
	"developer-api/internal/model"
	"developer-api/internal/service"
	"developer-api/internal/utils"

	"github.com/gin-gonic/gin"
)

type OAuthHandler struct {
	oauthService *service.OAuthService
	throttle     *middleware.IPThrottle
}

func NewOAuthHandler(oauthService *service.OAuthService, throttle *middleware.IPThrottle) *OAuthHandler {
	return &OAuthHandler{
		oauthService: oauthService,
		throttle:     throttle,
	}
}

func (h *OAuthHandler) RegisterClient(c *gin.Context) {
	var req dto.RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("validation_error", utils.FormatValidationError(err)))
		return
	}

	client, secret, err := h.oauthService.RegisterClient(c.Param("orgId"), req.Name, req.RedirectURIs, req.AllowedScopes)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterClientResponse{
		OAuthClientResponse: toOAuthClientResponse(client),
		ClientSecret:        secret,
	})
}

func (h *OAuthHandler) GetClient(c *gin.Context) {
	client, err := h.oauthService.GetClient(c.Param("clientId"), c.Param("orgId"))
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, toOAuthClientResponse(client))
}

func (h *OAuthHandler) ListClients(c *gin.Context) {
	limit, offset := paginationParams(c)
	clients, err := h.oauthService.ListClients(c.Param("orgId"), limit, offset)
	if err != nil {
		c.JSON(utils.GetErrorResponse(err))
		return
	}

	list := make([]dto.OAuthClientResponse, 0, len(clients))
	for _, client := range clients {
		list = append(list, toOAuthClientResponse(client))
	}
	c.JSON(http.StatusOK, dto.OAuthClientListResponse{Count: len(list), List: list})
}

// Authorize implements the authorization endpoint of the code grant. On
// success it redirects to the registered redirect URI with code and state;
// redirect-safe failures are also delivered by redirect per the OAuth
// convention.
func (h *OAuthHandler) Authorize(c *gin.Context) {
	var req dto.AuthorizeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OAuthErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: utils.FormatValidationError(err),
		})
		return
	}

	if req.ResponseType != "code" {
		c.JSON(http.StatusBadRequest, dto.OAuthErrorResponse{
			Error:            "unsupported_response_type",
			ErrorDescription: "only response_type=code is supported",
		})
		return
	}

	var scopes []string
	if req.Scope != "" {
		scopes = strings.Fields(req.Scope)
	}

	code, err := h.oauthService.GenerateAuthorizationCode(req.ClientID, c.Param("orgId"), req.UserID, scopes, req.RedirectURI)
	if err != nil {
		// The redirect URI is only trustworthy once it matched a registered
		// entry, so client and redirect failures render inline.
		switch {
		case errors.Is(err, constants.ErrClientNotFound):
			c.JSON(http.StatusBadRequest, dto.OAuthErrorResponse{Error: "invalid_client", ErrorDescription: "unknown client"})
		case errors.Is(err, constants.ErrClientInactive):
			c.JSON(http.StatusBadRequest, dto.OAuthErrorResponse{Error: "unauthorized_client", ErrorDescription: "client is inactive"})
		case errors.Is(err, constants.ErrRedirectURIMismatch):
			c.JSON(http.StatusBadRequest, dto.OAuthErrorResponse{Error: "invalid_request", ErrorDescription: "redirect_uri is not registered for this client"})
		case errors.Is(err, constants.ErrScopeNotAllowed):
			h.redirectError(c, req.RedirectURI, req.State, "invalid_scope", "requested scope is not allowed")
		default:
			c.JSON(http.StatusInternalServerError, dto.OAuthErrorResponse{Error: "server_error"})
		}
		return
	}

	redirect, err := url.Parse(req.RedirectURI)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.OAuthErrorResponse{Error: "invalid_request", ErrorDescription: "malformed redirect_uri"})
		return
	}
	query := redirect.Query()
	query.Set("code", code.Code)
	if req.State != "" {
		query.Set("state", req.State)
	}
	redirect.RawQuery = query.Encode()

	c.Redirect(http.StatusFound, redirect.String())
}

// Token implements the token endpoint for the authorization_code and
// refresh_token grants. The body is form-encoded per the OAuth spec.
func (h *OAuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OAuthErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: utils.FormatValidationError(err),
		})
		return
	}

	var pair *service.TokenPair
	var err error
	switch req.GrantType {
	case "authorization_code":
		if req.Code == "" || req.RedirectURI == "" {
			c.JSON(http.StatusBadRequest, dto.OAuthErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "code and redirect_uri are required",
			})
			return
		}
		pair, err = h.oauthService.ExchangeAuthorizationCode(req.Code, req.ClientID, req.ClientSecret, req.RedirectURI)
	case "refresh_token":
		if req.RefreshToken == "" {
			c.JSON(http.StatusBadRequest, dto.OAuthErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "refresh_token is required",
			})
			return
		}
		pair, err = h.oauthService.RefreshAccessToken(req.RefreshToken, req.ClientID, req.ClientSecret)
	default:
		err = constants.ErrUnsupportedGrantType
	}
	if err != nil {
		status, body := oauthTokenError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
		RefreshToken: pair.RefreshToken,
		Scope:        strings.Join(pair.Scopes, " "),
	})
}

// Revoke implements refresh token revocation. Per the revocation spec an
// unknown token still yields 200.
func (h *OAuthHandler) Revoke(c *gin.Context) {
	var req dto.RevokeTokenRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OAuthErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: utils.FormatValidationError(err),
		})
		return
	}

	if err := h.oauthService.RevokeRefreshToken(req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, dto.OAuthErrorResponse{Error: "server_error"})
		return
	}
	c.Status(http.StatusOK)
}

func (h *OAuthHandler) redirectError(c *gin.Context, redirectURI, state, code, description string) {
	redirect, err := url.Parse(redirectURI)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.OAuthErrorResponse{Error: code, ErrorDescription: description})
		return
	}
	query := redirect.Query()
	query.Set("error", code)
	query.Set("error_description", description)
	if state != "" {
		query.Set("state", state)
	}
	redirect.RawQuery = query.Encode()
	c.Redirect(http.StatusFound, redirect.String())
}

// oauthTokenError maps exchange/refresh failures to the flat OAuth error
// shape. Credential-class failures collapse to invalid_grant/invalid_client
// so the endpoint is not an enumeration oracle.
func oauthTokenError(err error) (int, dto.OAuthErrorResponse) {
	switch {
	case errors.Is(err, constants.ErrInvalidCode),
		errors.Is(err, constants.ErrCodeAlreadyUsed),
		errors.Is(err, constants.ErrCodeExpired),
		errors.Is(err, constants.ErrClientIDMismatch),
		errors.Is(err, constants.ErrRedirectURIMismatch),
		errors.Is(err, constants.ErrInvalidRefreshToken),
		errors.Is(err, constants.ErrRefreshTokenRevoked),
		errors.Is(err, constants.ErrRefreshTokenExpired):
		return http.StatusBadRequest, dto.OAuthErrorResponse{
			Error:            "invalid_grant",
			ErrorDescription: err.Error(),
		}
	case errors.Is(err, constants.ErrClientNotFound),
		errors.Is(err, constants.ErrInvalidClientSecret):
		return http.StatusUnauthorized, dto.OAuthErrorResponse{
			Error:            "invalid_client",
			ErrorDescription: "client authentication failed",
		}
	case errors.Is(err, constants.ErrUnsupportedGrantType):
		return http.StatusBadRequest, dto.OAuthErrorResponse{
			Error:            "unsupported_grant_type",
			ErrorDescription: "grant_type must be authorization_code or refresh_token",
		}
	default:
		return http.StatusInternalServerError, dto.OAuthErrorResponse{Error: "server_error"}
	}
}

func (h *OAuthHandler) RegisterRoutes(r *gin.Engine) {
	clientGroup := r.Group("/api/v1/organizations/:orgId/oauth/clients")
	{
		clientGroup.POST("", h.RegisterClient)
		clientGroup.GET("", h.ListClients)
		clientGroup.GET("/:clientId", h.GetClient)
	}

	r.GET("/api/v1/organizations/:orgId/oauth/authorize", h.Authorize)

	tokenGroup := r.Group("/api/v1/oauth", h.throttle.Handler())
	{
		tokenGroup.POST("/token", h.Token)
		tokenGroup.POST("/revoke", h.Revoke)
	}
}

func toOAuthClientResponse(client *model.OAuthClient) dto.OAuthClientResponse {
	return dto.OAuthClientResponse{
		ID:            client.UUID,
		ClientID:      client.ClientID,
		Name:          client.Name,
		RedirectURIs:  client.RedirectURIs,
		AllowedScopes: client.AllowedScopes,
		Active:        client.Active,
		CreatedAt:     client.CreatedAt,
	}
}
