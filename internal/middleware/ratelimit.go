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

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"developer-api/internal/constants"
	"developer-api/internal/service"
	"developer-api/internal/utils"

	"github.com/gin-gonic/gin"
)

// RateLimit enforces the per-key sliding windows on authenticated routes and
// records one usage entry per served request. OAuth tokens are not tied to
// an API key and pass through uncounted; the token-endpoint IP throttle
// covers that surface.
func RateLimit(rateLimitSvc *service.RateLimitService, apiKeySvc *service.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := TokenPayloadFromContext(c)
		if payload == nil || payload.Issuer != constants.TokenIssuerAPIKey {
			c.Next()
			return
		}

		key, err := apiKeySvc.GetAPIKey(payload.KeyID, payload.OrganizationID)
		if err != nil {
			// Fail open: a store error must not block the request.
			c.Next()
			return
		}

		result := rateLimitSvc.CheckRateLimit(key)
		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(time.Until(result.RetryAt).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				utils.NewErrorResponse("rate_limited", "Rate limit exceeded for the "+result.Window+" window"))
			return
		}

		start := time.Now()
		c.Next()

		rateLimitSvc.RecordUsage(key.UUID, key.OrganizationID, c.FullPath(), c.Request.Method,
			c.Writer.Status(), time.Since(start).Milliseconds())
	}
}
