package web

import (
	"github.com/BearBump/trackbook/internal/models"
	"github.com/pkg/errors"
)

func isUserError(err error) bool {
	var verr *models.ValidationError
	var derr *models.DuplicateError
	return errors.As(err, &verr) || errors.As(err, &derr)
}
