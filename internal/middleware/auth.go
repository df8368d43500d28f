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
	"errors"

	"developer-api/internal/constants"
	"developer-api/internal/service"
	"developer-api/internal/token"
	"developer-api/internal/utils"

	"github.com/gin-gonic/gin"
)

// ContextKeyTokenPayload is the gin context key carrying the verified token
// payload after authentication.
const ContextKeyTokenPayload = "tokenPayload"

// RequireAuth gates a route group behind bearer-token authentication against
// the organization in the orgId path parameter. The optional permissions are
// all required. Tenant mismatches are reported as 401, missing permissions
// as 403.
func RequireAuth(security *service.SecurityService, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param("orgId")
		payload, err := security.ValidateRequest(c.GetHeader("Authorization"), orgID, permissions)
		if err != nil {
			status, body := utils.GetErrorResponse(err)
			if !errors.Is(err, constants.ErrInsufficientPermissions) {
				status, body = utils.GetErrorResponse(constants.ErrInvalidToken)
			}
			c.AbortWithStatusJSON(status, body)
			return
		}

		c.Set(ContextKeyTokenPayload, payload)
		c.Next()
	}
}

// TokenPayloadFromContext returns the payload stored by RequireAuth, or nil
// when the route is unauthenticated.
func TokenPayloadFromContext(c *gin.Context) *token.Payload {
	value, exists := c.Get(ContextKeyTokenPayload)
	if !exists {
		return nil
	}
	payload, ok := value.(*token.Payload)
	if !ok {
		return nil
	}
	return payload
}
