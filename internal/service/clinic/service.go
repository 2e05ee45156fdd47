package clinic

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/helioscare/clinic-api/internal/model"
	"github.com/helioscare/clinic-api/internal/repository"
	apperrors "github.com/helioscare/clinic-api/pkg/errors"
)

type ClinicServicer interface {
	CreateClinic(ctx context.Context, session *model.Session, clinic *model.Clinic) (*model.Clinic, error)
	GetClinic(ctx context.Context, session *model.Session) (*model.Clinic, error)
	UpdateClinic(ctx context.Context, session *model.Session, clinic *model.Clinic) error
	DeleteClinic(ctx context.Context, session *model.Session) error
	ListMembers(ctx context.Context, session *model.Session) ([]*model.User, error)
}

type Service struct {
	repo repository.ClinicRepository
}

func NewService(repo repository.ClinicRepository) *Service {
	return &Service{repo: repo}
}

// CreateClinic creates the tenant and enrolls the creating user as its
// first staff member. Users without a clinic call this once after signup.
func (s *Service) CreateClinic(ctx context.Context, session *model.Session, clinic *model.Clinic) (*model.Clinic, error) {
	if session == nil {
		return nil, apperrors.Unauthenticated(nil)
	}
	if err := s.validateClinic(clinic); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, clinic); err != nil {
		return nil, err
	}
	if err := s.repo.AddMember(ctx, clinic.ID, session.UserID); err != nil {
		return nil, fmt.Errorf("failed to enroll clinic creator: %w", err)
	}
	return clinic, nil
}

func (s *Service) scope(session *model.Session) (uuid.UUID, error) {
	if session == nil {
		return uuid.Nil, apperrors.Unauthenticated(nil)
	}
	if session.ClinicID == nil {
		return uuid.Nil, apperrors.NoClinicAssociation()
	}
	return *session.ClinicID, nil
}

func (s *Service) GetClinic(ctx context.Context, session *model.Session) (*model.Clinic, error) {
	clinicID, err := s.scope(session)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, clinicID)
}

func (s *Service) UpdateClinic(ctx context.Context, session *model.Session, clinic *model.Clinic) error {
	clinicID, err := s.scope(session)
	if err != nil {
		return err
	}
	if err := s.validateClinic(clinic); err != nil {
		return err
	}
	clinic.ID = clinicID
	return s.repo.Update(ctx, clinic)
}

// DeleteClinic cascades removal of every owned doctor, patient, appointment
// and staff membership through the schema's foreign keys.
func (s *Service) DeleteClinic(ctx context.Context, session *model.Session) error {
	clinicID, err := s.scope(session)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, clinicID)
}

func (s *Service) ListMembers(ctx context.Context, session *model.Session) ([]*model.User, error) {
	clinicID, err := s.scope(session)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, clinicID)
}

func (s *Service) validateClinic(clinic *model.Clinic) error {
	fields := make(map[string]string)
	if strings.TrimSpace(clinic.Name) == "" {
		fields["name"] = "clinic name is required"
	}
	if strings.TrimSpace(clinic.Address) == "" {
		fields["address"] = "clinic address is required"
	}
	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	return nil
}
