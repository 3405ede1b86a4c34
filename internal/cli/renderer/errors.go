// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package renderer

import (
	"errors"
	"syscall"

	apimodel "github.com/platform-engineering-labs/panier/internal/api/model"
	"github.com/platform-engineering-labs/panier/internal/cli/display"
)

// RenderErrorMessage turns errors returned by the agent into a message for humans. Errors that
// carry no API error are rendered as is.
func RenderErrorMessage(err error) string {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return display.Red("agent is not running; please start it with 'panier agent start' and try again\n")
	}

	var errResp *apimodel.ErrorResponse
	if !errors.As(err, &errResp) {
		return display.Redf("%s\n", err.Error())
	}

	switch errResp.ErrorType {
	case apimodel.IDNotFound:
		return display.Redf("%s was not found\n", errResp.EntityName)
	case apimodel.IDExists:
		return display.Redf("a new %s cannot already have an id\n", errResp.EntityName)
	case apimodel.IDNull, apimodel.IDInvalid:
		return display.Redf("invalid %s id: %s\n", errResp.EntityName, errResp.Message)
	case apimodel.ReferenceNotFound:
		return display.Redf("referenced %s does not exist: %s\n", errResp.EntityName, errResp.Message)
	default:
		return display.Redf("%s\n", errResp.Error())
	}
}
