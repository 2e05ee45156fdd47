package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/helioscare/clinic-api/internal/model"
	apperrors "github.com/helioscare/clinic-api/pkg/errors"
)

// Operation names a doctor mutation gated by authorization.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// authorize resolves the caller's clinic scope in a fixed order:
// Unauthenticated, NoClinicAssociation, then for update/delete the target
// ownership check (NotFound, Forbidden), and finally the authorized clinic
// id. It runs to completion before any write is attempted. Forbidden and
// NotFound share the same user-facing message so callers cannot probe for
// other clinics' doctors.
func (s *Service) authorize(ctx context.Context, session *model.Session, op Operation, doctorID *uuid.UUID) (uuid.UUID, error) {
	if session == nil {
		return uuid.Nil, apperrors.Unauthenticated(nil)
	}
	if session.ClinicID == nil {
		return uuid.Nil, apperrors.NoClinicAssociation()
	}
	clinicID := *session.ClinicID

	if op == OpUpdate || op == OpDelete {
		if doctorID == nil {
			return uuid.Nil, apperrors.BadRequest("doctor id is required", nil)
		}
		target, err := s.repo.Get(ctx, *doctorID)
		if err != nil {
			if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrNotFound {
				return uuid.Nil, err
			}
			return uuid.Nil, fmt.Errorf("failed to check doctor ownership: %w", err)
		}
		if target.ClinicID != clinicID {
			return uuid.Nil, apperrors.Forbidden("doctor not found")
		}
	}

	return clinicID, nil
}
