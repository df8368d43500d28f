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

// ErrorBody is the inner object of the standard error envelope
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorResponse is the standard error envelope for non-OAuth endpoints
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse creates a new error envelope
func NewErrorResponse(code, message string, details ...string) ErrorResponse {
	resp := ErrorResponse{Error: ErrorBody{Code: code, Message: message}}
	if len(details) > 0 {
		resp.Error.Details = details[0]
	}
	return resp
}
