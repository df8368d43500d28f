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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"developer-api/internal/constants"
	"developer-api/internal/middleware"
	"developer-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTokenEndpointRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	// The unsupported-grant path never reaches the stores, so the service
	// can run without them here.
	oauthSvc := service.NewOAuthService(nil, nil, nil, nil, nil, 0, 0, zap.NewNop())
	h := NewOAuthHandler(oauthSvc, middleware.NewIPThrottle(1000))
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func postTokenForm(t *testing.T, r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenRejectsUnsupportedGrantType(t *testing.T) {
	r := newTokenEndpointRouter(t)

	w := postTokenForm(t, r, url.Values{
		"grant_type":    {"password"},
		"client_id":     {"cid_test"},
		"client_secret": {"secret"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unsupported_grant_type", body["error"])
}

func TestTokenRejectsMissingGrantType(t *testing.T) {
	r := newTokenEndpointRouter(t)

	w := postTokenForm(t, r, url.Values{
		"client_id":     {"cid_test"},
		"client_secret": {"secret"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_request", body["error"])
}

func TestOAuthTokenErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "invalid code", err: constants.ErrInvalidCode, wantStatus: http.StatusBadRequest, wantError: "invalid_grant"},
		{name: "expired refresh token", err: constants.ErrRefreshTokenExpired, wantStatus: http.StatusBadRequest, wantError: "invalid_grant"},
		{name: "unknown client", err: constants.ErrClientNotFound, wantStatus: http.StatusUnauthorized, wantError: "invalid_client"},
		{name: "wrong secret", err: constants.ErrInvalidClientSecret, wantStatus: http.StatusUnauthorized, wantError: "invalid_client"},
		{name: "unsupported grant", err: constants.ErrUnsupportedGrantType, wantStatus: http.StatusBadRequest, wantError: "unsupported_grant_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := oauthTokenError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}
