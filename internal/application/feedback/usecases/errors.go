package usecases

import (
	stderrors "errors"

	"github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/shared/errors"
)

// toAppError translates domain and infrastructure failures into the API error
// taxonomy. msg is used for unexpected failures only.
func toAppError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	if ve, ok := feedback.AsValidationError(err); ok {
		return errors.NewValidationError(ve.Error(), ve.Field)
	}
	switch {
	case stderrors.Is(err, feedback.ErrThreadNotFound):
		return errors.NewNotFoundError("thread not found")
	case stderrors.Is(err, feedback.ErrThreadAlreadyDeleted):
		return errors.NewConflictError("thread already deleted")
	case stderrors.Is(err, feedback.ErrThreadDeleted):
		return errors.NewConflictError("thread is deleted")
	case stderrors.Is(err, feedback.ErrThreadNotDeleted):
		return errors.NewConflictError("thread is not deleted")
	}
	return errors.FromInfra(err, msg)
}
