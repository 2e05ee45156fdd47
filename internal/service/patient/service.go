package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/helioscare/clinic-api/internal/model"
	"github.com/helioscare/clinic-api/internal/repository"
	apperrors "github.com/helioscare/clinic-api/pkg/errors"
)

type PatientServicer interface {
	CreatePatient(ctx context.Context, session *model.Session, req *model.CreatePatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Patient, error)
	UpdatePatient(ctx context.Context, session *model.Session, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, session *model.Session, id uuid.UUID) error
	ListPatients(ctx context.Context, session *model.Session) ([]*model.Patient, error)
}

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) clinicScope(session *model.Session) (uuid.UUID, error) {
	if session == nil {
		return uuid.Nil, apperrors.Unauthenticated(nil)
	}
	if session.ClinicID == nil {
		return uuid.Nil, apperrors.NoClinicAssociation()
	}
	return *session.ClinicID, nil
}

// owned fetches the patient and verifies it belongs to the caller's clinic.
// Rows owned by other clinics read as not found.
func (s *Service) owned(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Patient, error) {
	clinicID, err := s.clinicScope(session)
	if err != nil {
		return nil, err
	}
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient.ClinicID != clinicID {
		return nil, apperrors.Forbidden("patient not found")
	}
	return patient, nil
}

func (s *Service) CreatePatient(ctx context.Context, session *model.Session, req *model.CreatePatientRequest) (*model.Patient, error) {
	clinicID, err := s.clinicScope(session)
	if err != nil {
		return nil, err
	}

	patient := &model.Patient{
		ClinicID:    clinicID,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Sex:         model.PatientSex(req.Sex),
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Patient, error) {
	return s.owned(ctx, session, id)
}

func (s *Service) UpdatePatient(ctx context.Context, session *model.Session, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.owned(ctx, session, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		patient.PhoneNumber = *req.PhoneNumber
	}
	if req.Sex != nil {
		patient.Sex = model.PatientSex(*req.Sex)
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, session *model.Session, id uuid.UUID) error {
	if _, err := s.owned(ctx, session, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, session *model.Session) ([]*model.Patient, error) {
	clinicID, err := s.clinicScope(session)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByClinic(ctx, clinicID)
}
