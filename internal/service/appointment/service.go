package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/helioscare/clinic-api/internal/model"
	"github.com/helioscare/clinic-api/internal/repository"
	apperrors "github.com/helioscare/clinic-api/pkg/errors"
)

type AppointmentServicer interface {
	CreateAppointment(ctx context.Context, session *model.Session, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, session *model.Session, id uuid.UUID) error
	DeleteAppointment(ctx context.Context, session *model.Session, id uuid.UUID) error
	ListAppointments(ctx context.Context, session *model.Session, filters *model.AppointmentFilters) ([]*model.Appointment, error)
}

type Service struct {
	repo        repository.AppointmentRepository
	doctorRepo  repository.DoctorRepository
	patientRepo repository.PatientRepository
}

func NewService(repo repository.AppointmentRepository, doctorRepo repository.DoctorRepository, patientRepo repository.PatientRepository) *Service {
	return &Service{
		repo:        repo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
	}
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

// CreateAppointment books a patient with a doctor of the caller's clinic.
// The appointment price is copied from the doctor at booking time so later
// price changes do not rewrite history.
func (s *Service) CreateAppointment(ctx context.Context, session *model.Session, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	clinicID, err := s.clinicScope(session)
	if err != nil {
		return nil, err
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid doctor ID", err)
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid patient ID", err)
	}

	doctor, err := s.doctorRepo.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor.ClinicID != clinicID {
		return nil, apperrors.Forbidden("doctor not found")
	}

	patient, err := s.patientRepo.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient.ClinicID != clinicID {
		return nil, apperrors.Forbidden("patient not found")
	}

	if req.Time.Before(time.Now()) {
		return nil, apperrors.BadRequest("appointment cannot be scheduled in the past", nil)
	}

	apt := &model.Appointment{
		ClinicID:     clinicID,
		DoctorID:     doctorID,
		PatientID:    patientID,
		Time:         req.Time,
		PriceInCents: doctor.AppointmentPriceInCents,
		Status:       model.AppointmentStatusScheduled,
	}
	apt.ID = uuid.New()

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) owned(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Appointment, error) {
	clinicID, err := s.clinicScope(session)
	if err != nil {
		return nil, err
	}
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.ClinicID != clinicID {
		return nil, apperrors.Forbidden("appointment not found")
	}
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Appointment, error) {
	return s.owned(ctx, session, id)
}

func (s *Service) CancelAppointment(ctx context.Context, session *model.Session, id uuid.UUID) error {
	apt, err := s.owned(ctx, session, id)
	if err != nil {
		return err
	}

	if apt.Status == model.AppointmentStatusCancelled {
		return apperrors.BadRequest("appointment is already cancelled", nil)
	}
	if apt.Status == model.AppointmentStatusCompleted {
		return apperrors.BadRequest("cannot cancel a completed appointment", nil)
	}

	apt.Status = model.AppointmentStatusCancelled
	if err := s.repo.Update(ctx, apt); err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return nil
}

func (s *Service) DeleteAppointment(ctx context.Context, session *model.Session, id uuid.UUID) error {
	if _, err := s.owned(ctx, session, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, session *model.Session, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	clinicID, err := s.clinicScope(session)
	if err != nil {
		return nil, err
	}
	filters.ClinicID = clinicID
	return s.repo.List(ctx, filters)
}
