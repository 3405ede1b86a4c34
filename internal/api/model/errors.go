// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"errors"
	"fmt"
)

type APIError string

const (
	IDExists          APIError = "idexists"
	IDNull            APIError = "idnull"
	IDInvalid         APIError = "idinvalid"
	IDNotFound        APIError = "idnotfound"
	ReferenceNotFound APIError = "referencenotfound"
	InvalidBody       APIError = "invalidbody"
	InvalidQuery      APIError = "invalidquery"
)

// ErrorResponse is the body of every 4xx answer of the API. Status is filled in by the
// client from the HTTP response.
type ErrorResponse struct {
	ErrorType  APIError `json:"error"`
	EntityName string   `json:"entityName"`
	Message    string   `json:"message"`
	Status     int      `json:"-"`
}

// Error allows ErrorResponse satisfy the error interface
func (e *ErrorResponse) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.EntityName, e.ErrorType)
	}
	return fmt.Sprintf("%s: %s (%s)", e.EntityName, e.Message, e.ErrorType)
}

// IsAPIError reports whether err is an ErrorResponse of the given type.
func IsAPIError(err error, errorType APIError) bool {
	var resp *ErrorResponse
	return errors.As(err, &resp) && resp.ErrorType == errorType
}
