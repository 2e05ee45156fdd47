package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/helioscare/clinic-api/internal/model"
	"github.com/helioscare/clinic-api/internal/repository"
	apperrors "github.com/helioscare/clinic-api/pkg/errors"
	"github.com/helioscare/clinic-api/pkg/logger"
)

const (
	timeOfDayLayout  = "15:04:05"
	doctorsCacheTTL  = 5 * time.Minute
	cacheCleanupTick = 15 * time.Minute
)

type DoctorServicer interface {
	UpsertDoctor(ctx context.Context, session *model.Session, input *UpsertDoctorInput) (*model.Doctor, error)
	DeleteDoctor(ctx context.Context, session *model.Session, id uuid.UUID) error
	GetDoctor(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Doctor, error)
	ListDoctors(ctx context.Context, session *model.Session) ([]*model.Doctor, error)
}

// Service validates, authorizes and persists doctor availability. The
// clinic's reference timezone is an explicit dependency rather than the
// process's ambient local zone.
type Service struct {
	repo       repository.DoctorRepository
	outboxRepo repository.OutboxRepository
	clinicTZ   *time.Location
	listings   *cache.Cache
	logger     *logger.Logger
}

func NewService(repo repository.DoctorRepository, outboxRepo repository.OutboxRepository, clinicTZ *time.Location, logger *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		outboxRepo: outboxRepo,
		clinicTZ:   clinicTZ,
		listings:   cache.New(doctorsCacheTTL, cacheCleanupTick),
		logger:     logger,
	}
}

// UpsertDoctor runs the pipeline: validate, authorize, normalize times to
// UTC, upsert, then signal staleness of the doctors listing. Validation
// failures reject before any authorization or persistence step runs.
func (s *Service) UpsertDoctor(ctx context.Context, session *model.Session, input *UpsertDoctorInput) (*model.Doctor, error) {
	if fields := ValidateUpsert(input); fields != nil {
		return nil, apperrors.Validation(fields)
	}

	op := OpCreate
	if input.ID != nil {
		op = OpUpdate
	}
	clinicID, err := s.authorize(ctx, session, op, input.ID)
	if err != nil {
		return nil, err
	}

	fromUTC, err := s.normalizeTimeOfDay(input.AvailableFromTime)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize start time: %w", err)
	}
	toUTC, err := s.normalizeTimeOfDay(input.AvailableToTime)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize end time: %w", err)
	}

	doctor := &model.Doctor{
		ClinicID:                clinicID,
		Name:                    input.Name,
		Specialty:               input.Specialty,
		AppointmentPriceInCents: int64(math.Round(input.AppointmentPrice * 100)),
		AvailableFromWeekday:    input.AvailableFromWeekday,
		AvailableToWeekday:      input.AvailableToWeekday,
		AvailableFromTime:       fromUTC,
		AvailableToTime:         toUTC,
	}
	if input.ID != nil {
		doctor.ID = *input.ID
	} else {
		doctor.ID = uuid.New()
	}

	if kind := model.WeekdayRangeOf(doctor.AvailableFromWeekday, doctor.AvailableToWeekday); kind == model.WeekdayRangeAmbiguous {
		s.logger.Warn("doctor weekday range has no linear reading",
			"doctor_id", doctor.ID.String(),
			"from_weekday", doctor.AvailableFromWeekday,
			"to_weekday", doctor.AvailableToWeekday,
		)
	}

	if err := s.repo.Upsert(ctx, doctor); err != nil {
		return nil, err
	}

	s.signalStale(ctx, model.EventDoctorUpserted, doctor.ID, clinicID)
	return doctor, nil
}

// DeleteDoctor re-verifies ownership through the gate before issuing the
// delete; dependent appointments are removed by the schema's cascade.
func (s *Service) DeleteDoctor(ctx context.Context, session *model.Session, id uuid.UUID) error {
	clinicID, err := s.authorize(ctx, session, OpDelete, &id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.signalStale(ctx, model.EventDoctorDeleted, id, clinicID)
	return nil
}

func (s *Service) GetDoctor(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Doctor, error) {
	clinicID, err := s.authorize(ctx, session, OpUpdate, &id)
	if err != nil {
		return nil, err
	}

	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doctor.ClinicID != clinicID {
		return nil, apperrors.Forbidden("doctor not found")
	}
	return doctor, nil
}

// ListDoctors serves the clinic's doctors through a short-TTL cache. The
// cache entry is dropped whenever an upsert or delete commits.
func (s *Service) ListDoctors(ctx context.Context, session *model.Session) ([]*model.Doctor, error) {
	clinicID, err := s.authorize(ctx, session, OpCreate, nil)
	if err != nil {
		return nil, err
	}

	key := doctorsCacheKey(clinicID)
	if cached, ok := s.listings.Get(key); ok {
		return cached.([]*model.Doctor), nil
	}

	doctors, err := s.repo.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	s.listings.Set(key, doctors, cache.DefaultExpiration)
	return doctors, nil
}

// InvalidateListing drops the cached doctors view for a clinic. Called
// locally after writes and remotely when a doctor event arrives over the
// broker from another replica.
func (s *Service) InvalidateListing(clinicID uuid.UUID) {
	s.listings.Delete(doctorsCacheKey(clinicID))
}

// normalizeTimeOfDay converts a clinic-local wall-clock "HH:MM:SS" string to
// its UTC rendering, anchored on today's date in the clinic timezone. Only
// the time of day survives; a day-boundary crossover introduced by the
// conversion is discarded and the weekday fields are left untouched.
func (s *Service) normalizeTimeOfDay(value string) (string, error) {
	parsed, err := time.Parse(timeOfDayLayout, value)
	if err != nil {
		return "", fmt.Errorf("invalid time of day %q: %w", value, err)
	}

	now := time.Now().In(s.clinicTZ)
	local := time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, s.clinicTZ)

	return local.UTC().Format(timeOfDayLayout), nil
}

// signalStale is only called after a committed write; a failed upsert or
// delete leaves prior cached state untouched.
func (s *Service) signalStale(ctx context.Context, eventType string, doctorID, clinicID uuid.UUID) {
	s.InvalidateListing(clinicID)

	payload, err := json.Marshal(model.DoctorEventPayload{
		DoctorID: doctorID,
		ClinicID: clinicID,
		Resource: "/doctors",
	})
	if err != nil {
		s.logger.Error(err, "failed to marshal doctor event payload")
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		// The write itself committed; a lost invalidation event only delays
		// other replicas until their cache TTL expires.
		s.logger.Error(err, "failed to create outbox event",
			"event_type", eventType,
			"doctor_id", doctorID.String(),
		)
	}
}

func doctorsCacheKey(clinicID uuid.UUID) string {
	return "doctors:" + clinicID.String()
}
