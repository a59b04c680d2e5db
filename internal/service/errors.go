package service

import (
	"errors"

	"github.com/spec-kit/parcel-service/internal/repository"
	apperrors "github.com/spec-kit/parcel-service/pkg/util/errorutil"
)

// notFoundOr maps repository.ErrNotFound to a 404 carrying message and passes
// every other error through.
func notFoundOr(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(message, nil)
	}
	return err
}
