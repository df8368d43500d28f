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
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
)

// OpenAPIHandler serves the API description document. The document is
// loaded and validated once at startup so a broken description fails fast.
type OpenAPIHandler struct {
	raw []byte
}

// NewOpenAPIHandler loads and validates the OpenAPI document at path.
func NewOpenAPIHandler(path string) (*OpenAPIHandler, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI document: %w", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	return &OpenAPIHandler{raw: raw}, nil
}

func (h *OpenAPIHandler) GetDocument(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", h.raw)
}

func (h *OpenAPIHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/v1/openapi.yaml", h.GetDocument)
}
