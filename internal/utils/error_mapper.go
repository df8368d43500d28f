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

package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"developer-api/internal/constants"

	"github.com/go-playground/validator/v10"
)

// makeError creates a standardized error response tuple
func makeError(status int, code, message string) (int, interface{}) {
	return status, NewErrorResponse(code, message)
}

// FormatValidationError converts validator errors to user-friendly messages (public API)
func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	return formatValidationError(validationErrors)
}

// formatValidationError converts ValidationErrors to user-friendly messages (internal)
func formatValidationError(validationErrors validator.ValidationErrors) string {
	var messages []string
	for _, fieldError := range validationErrors {
		fieldName := getUserFriendlyFieldName(fieldError.Field())
		message := getValidationErrorMessage(fieldName, fieldError.Tag(), fieldError.Param())
		messages = append(messages, message)
	}
	return strings.Join(messages, "; ")
}

// getUserFriendlyFieldName maps struct field names to user-friendly field names
func getUserFriendlyFieldName(fieldName string) string {
	fieldMap := map[string]string{
		"Name":              "name",
		"Handle":            "handle",
		"Key":               "key",
		"Secret":            "secret",
		"Permissions":       "permissions",
		"URL":               "URL",
		"Events":            "events",
		"RedirectURIs":      "redirect URIs",
		"AllowedScopes":     "allowed scopes",
		"AllowedOrigins":    "allowed origins",
		"Event":             "event",
		"Payload":           "payload",
		"Path":              "path",
		"RequestsPerMinute": "requests per minute",
		"RequestsPerHour":   "requests per hour",
		"RequestsPerDay":    "requests per day",
	}

	if friendly, exists := fieldMap[fieldName]; exists {
		return friendly
	}
	return strings.ToLower(fieldName)
}

// getValidationErrorMessage creates user-friendly validation error messages
func getValidationErrorMessage(fieldName, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", fieldName)
	case "min":
		return fmt.Sprintf("%s must contain at least %s items", fieldName, param)
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fieldName, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fieldName)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fieldName, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", fieldName)
	}
}

// GetErrorResponse maps domain errors and validation errors to an HTTP
// status and the standard error envelope. Unknown errors map to a generic
// 500 without leaking internals.
func GetErrorResponse(err error) (int, interface{}) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return makeError(http.StatusBadRequest, "validation_error", formatValidationError(validationErrors))
	}

	switch {
	// Organization errors
	case errors.Is(err, constants.ErrOrganizationNotFound):
		return makeError(http.StatusNotFound, "organization_not_found", "Organization not found")
	case errors.Is(err, constants.ErrOrganizationExists):
		return makeError(http.StatusConflict, "organization_exists", "Organization with this handle already exists")
	case errors.Is(err, constants.ErrInvalidHandle):
		return makeError(http.StatusBadRequest, "invalid_handle", "Handle must be lowercase and URL friendly")

	// API key errors
	case errors.Is(err, constants.ErrInvalidKey):
		return makeError(http.StatusUnauthorized, "unauthorized", "Invalid API key or secret")
	case errors.Is(err, constants.ErrInvalidSecret):
		return makeError(http.StatusUnauthorized, "unauthorized", "Invalid API key or secret")
	case errors.Is(err, constants.ErrKeyNotActive):
		return makeError(http.StatusUnauthorized, "unauthorized", "API key is not active")
	case errors.Is(err, constants.ErrKeyNotFound):
		return makeError(http.StatusNotFound, "key_not_found", "API key not found")
	case errors.Is(err, constants.ErrInvalidToken):
		return makeError(http.StatusUnauthorized, "unauthorized", "Missing or invalid bearer token")
	case errors.Is(err, constants.ErrInsufficientPermissions):
		return makeError(http.StatusForbidden, "forbidden", "Token lacks the required permissions")

	// Rate limit errors
	case errors.Is(err, constants.ErrInvalidLimits):
		return makeError(http.StatusBadRequest, "invalid_limits", "Rate limit thresholds must be positive")

	// Webhook errors
	case errors.Is(err, constants.ErrWebhookNotFound):
		return makeError(http.StatusNotFound, "webhook_not_found", "Webhook not found")
	case errors.Is(err, constants.ErrInvalidWebhookURL):
		return makeError(http.StatusBadRequest, "invalid_url", "Webhook URL must use HTTPS")
	case errors.Is(err, constants.ErrNoWebhookEvents):
		return makeError(http.StatusBadRequest, "no_events", "At least one event is required")

	// OAuth client management errors (non-protocol surface)
	case errors.Is(err, constants.ErrClientNotFound):
		return makeError(http.StatusNotFound, "client_not_found", "OAuth client not found")
	case errors.Is(err, constants.ErrInvalidRedirectURI):
		return makeError(http.StatusBadRequest, "invalid_redirect_uri", "Redirect URIs must use HTTPS or localhost")

	default:
		return makeError(http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
