package service

import (
	"connectrpc.com/connect"

	"github.com/mmynk/veresiye/internal/models"
)

// toConnectError maps core errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	switch {
	case models.IsValidation(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case models.IsNotFound(err):
		return connect.NewError(connect.CodeNotFound, err)
	case models.IsBackup(err):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

var errNegativeAge = &models.ValidationError{Field: "max_age_days", Reason: "must not be negative"}
