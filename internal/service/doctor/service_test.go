package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helioscare/clinic-api/internal/model"
	apperrors "github.com/helioscare/clinic-api/pkg/errors"
	"github.com/helioscare/clinic-api/pkg/logger"
)

type fakeDoctorRepo struct {
	doctors     map[uuid.UUID]*model.Doctor
	upsertCalls int
	getCalls    int
	listCalls   int
	failUpsert  error
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
}

func (r *fakeDoctorRepo) Upsert(_ context.Context, doctor *model.Doctor) error {
	r.upsertCalls++
	if r.failUpsert != nil {
		return r.failUpsert
	}
	stored := *doctor
	r.doctors[doctor.ID] = &stored
	return nil
}

func (r *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	r.getCalls++
	doctor, ok := r.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	copied := *doctor
	return &copied, nil
}

func (r *fakeDoctorRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.doctors, id)
	return nil
}

func (r *fakeDoctorRepo) ListByClinic(_ context.Context, clinicID uuid.UUID) ([]*model.Doctor, error) {
	r.listCalls++
	var doctors []*model.Doctor
	for _, d := range r.doctors {
		if d.ClinicID == clinicID {
			copied := *d
			doctors = append(doctors, &copied)
		}
	}
	return doctors, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return r.events, nil
}

func (r *fakeOutboxRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.OutboxStatus, _ *string) error {
	return nil
}

func (r *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

// A fixed-offset zone keeps the expected UTC shift stable across dates.
var testClinicTZ = time.FixedZone("UTC-3", -3*60*60)

func newTestService(repo *fakeDoctorRepo, outbox *fakeOutboxRepo) *Service {
	return NewService(repo, outbox, testClinicTZ, logger.NewLogger(nil))
}

func sessionFor(clinicID uuid.UUID) *model.Session {
	return &model.Session{
		UserID:   uuid.New(),
		Email:    "staff@clinic.test",
		ClinicID: &clinicID,
	}
}

func TestUpsertDoctorCreatesClinicScopedRow(t *testing.T) {
	repo := newFakeDoctorRepo()
	outbox := &fakeOutboxRepo{}
	svc := newTestService(repo, outbox)
	clinicID := uuid.New()

	doctor, err := svc.UpsertDoctor(context.Background(), sessionFor(clinicID), validInput())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, doctor.ID)
	assert.Equal(t, clinicID, doctor.ClinicID)
	assert.Equal(t, int64(15000), doctor.AppointmentPriceInCents)
	// Local 08:00/18:00 at UTC-3 persist as 11:00/21:00 UTC.
	assert.Equal(t, "11:00:00", doctor.AvailableFromTime)
	assert.Equal(t, "21:00:00", doctor.AvailableToTime)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventDoctorUpserted, outbox.events[0].EventType)
}

func TestUpsertDoctorNormalizationDiscardsDayCrossover(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := newTestService(repo, &fakeOutboxRepo{})

	in := validInput()
	in.AvailableFromTime = "22:00:00"
	in.AvailableToTime = "23:30:00"

	doctor, err := svc.UpsertDoctor(context.Background(), sessionFor(uuid.New()), in)
	require.NoError(t, err)

	// 23:30 local is 02:30 the next UTC day; only the time of day is kept.
	assert.Equal(t, "01:00:00", doctor.AvailableFromTime)
	assert.Equal(t, "02:30:00", doctor.AvailableToTime)
}

func TestUpsertDoctorIdempotent(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := newTestService(repo, &fakeOutboxRepo{})
	clinicID := uuid.New()
	session := sessionFor(clinicID)

	first, err := svc.UpsertDoctor(context.Background(), session, validInput())
	require.NoError(t, err)

	in := validInput()
	in.ID = &first.ID
	second, err := svc.UpsertDoctor(context.Background(), session, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.doctors, 1)
	assert.Equal(t, first.AvailableFromTime, second.AvailableFromTime)
	assert.Equal(t, first.AvailableToTime, second.AvailableToTime)
	assert.Equal(t, first.AppointmentPriceInCents, second.AppointmentPriceInCents)
}

func TestUpsertDoctorValidationRunsBeforeAuthorization(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := newTestService(repo, &fakeOutboxRepo{})

	in := validInput()
	in.AvailableFromTime = "18:00:00"
	in.AvailableToTime = "08:00:00"

	// Even with no session at all, the malformed record must be rejected
	// as a validation failure before the gate or storage is consulted.
	_, err := svc.UpsertDoctor(context.Background(), nil, in)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "available_to_time")
	assert.Zero(t, repo.getCalls)
	assert.Zero(t, repo.upsertCalls)
}

func TestUpsertDoctorUnauthenticated(t *testing.T) {
	svc := newTestService(newFakeDoctorRepo(), &fakeOutboxRepo{})

	_, err := svc.UpsertDoctor(context.Background(), nil, validInput())

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthenticated, appErr.Code)
}

func TestUpsertDoctorNoClinicAssociation(t *testing.T) {
	svc := newTestService(newFakeDoctorRepo(), &fakeOutboxRepo{})
	session := &model.Session{UserID: uuid.New(), Email: "staff@clinic.test"}

	_, err := svc.UpsertDoctor(context.Background(), session, validInput())

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNoClinicAssociation, appErr.Code)
}

func TestUpsertDoctorForbiddenAcrossClinics(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := newTestService(repo, &fakeOutboxRepo{})

	owner, err := svc.UpsertDoctor(context.Background(), sessionFor(uuid.New()), validInput())
	require.NoError(t, err)
	repo.upsertCalls = 0

	in := validInput()
	in.ID = &owner.ID
	_, err = svc.UpsertDoctor(context.Background(), sessionFor(uuid.New()), in)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
	assert.Zero(t, repo.upsertCalls, "no write may happen on authorization failure")
}

func TestUpsertDoctorUpdateMissingTarget(t *testing.T) {
	svc := newTestService(newFakeDoctorRepo(), &fakeOutboxRepo{})

	missing := uuid.New()
	in := validInput()
	in.ID = &missing
	_, err := svc.UpsertDoctor(context.Background(), sessionFor(uuid.New()), in)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestUpsertDoctorPersistenceFailureEmitsNoSignal(t *testing.T) {
	repo := newFakeDoctorRepo()
	repo.failUpsert = apperrors.Persistence(assert.AnError)
	outbox := &fakeOutboxRepo{}
	svc := newTestService(repo, outbox)

	_, err := svc.UpsertDoctor(context.Background(), sessionFor(uuid.New()), validInput())

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrPersistence, appErr.Code)
	assert.Empty(t, outbox.events)
}

func TestDeleteDoctorFlow(t *testing.T) {
	repo := newFakeDoctorRepo()
	outbox := &fakeOutboxRepo{}
	svc := newTestService(repo, outbox)
	clinicID := uuid.New()
	session := sessionFor(clinicID)

	doctor, err := svc.UpsertDoctor(context.Background(), session, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDoctor(context.Background(), session, doctor.ID))
	assert.Empty(t, repo.doctors)

	require.Len(t, outbox.events, 2)
	assert.Equal(t, model.EventDoctorDeleted, outbox.events[1].EventType)

	// Gate rejects a second delete: the row is gone.
	err = svc.DeleteDoctor(context.Background(), session, doctor.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestDeleteDoctorForbiddenAcrossClinics(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := newTestService(repo, &fakeOutboxRepo{})

	doctor, err := svc.UpsertDoctor(context.Background(), sessionFor(uuid.New()), validInput())
	require.NoError(t, err)

	err = svc.DeleteDoctor(context.Background(), sessionFor(uuid.New()), doctor.ID)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
	assert.Len(t, repo.doctors, 1)
}

func TestListDoctorsCachedUntilWrite(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := newTestService(repo, &fakeOutboxRepo{})
	clinicID := uuid.New()
	session := sessionFor(clinicID)

	_, err := svc.UpsertDoctor(context.Background(), session, validInput())
	require.NoError(t, err)

	first, err := svc.ListDoctors(context.Background(), session)
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.ListDoctors(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls, "second read must come from cache")

	in := validInput()
	in.Name = "Dr. Bruno"
	_, err = svc.UpsertDoctor(context.Background(), session, in)
	require.NoError(t, err)

	second, err := svc.ListDoctors(context.Background(), session)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, 2, repo.listCalls, "write must invalidate the cached view")
}

func TestNormalizeTimeOfDayRoundTrip(t *testing.T) {
	svc := newTestService(newFakeDoctorRepo(), &fakeOutboxRepo{})

	tests := []struct {
		local string
		utc   string
	}{
		{local: "00:00:00", utc: "03:00:00"},
		{local: "08:00:00", utc: "11:00:00"},
		{local: "21:00:00", utc: "00:00:00"},
		{local: "23:59:59", utc: "02:59:59"},
	}

	for _, tt := range tests {
		got, err := svc.normalizeTimeOfDay(tt.local)
		require.NoError(t, err)
		assert.Equal(t, tt.utc, got, "local %s", tt.local)
	}
}
