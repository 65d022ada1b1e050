package db

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"planner-go/internal/domain/constraint"
)

// TranslateError maps constraint violations reported by the database onto
// the domain's integrity errors. Other errors pass through unchanged.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return errors.WithMessage(constraint.ErrDuplicateEntry, err.Error())
	case stderrors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.WithMessage(constraint.ErrReferenceInUse, err.Error())
	default:
		return err
	}
}
