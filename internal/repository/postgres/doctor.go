package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/helioscare/clinic-api/internal/model"
	"github.com/helioscare/clinic-api/internal/repository"
	apperrors "github.com/helioscare/clinic-api/pkg/errors"
)

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

// Upsert is a single INSERT ... ON CONFLICT statement, so concurrent writes
// to the same doctor id race with last-write-wins at the storage layer.
// clinic_id is intentionally absent from the update list: a doctor is never
// reassigned to another clinic.
func (r *doctorRepository) Upsert(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, clinic_id, name, specialty, appointment_price_in_cents,
			available_from_weekday, available_to_weekday,
			available_from_time, available_to_time,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			specialty = EXCLUDED.specialty,
			appointment_price_in_cents = EXCLUDED.appointment_price_in_cents,
			available_from_weekday = EXCLUDED.available_from_weekday,
			available_to_weekday = EXCLUDED.available_to_weekday,
			available_from_time = EXCLUDED.available_from_time,
			available_to_time = EXCLUDED.available_to_time,
			updated_at = EXCLUDED.updated_at
	`
	now := time.Now()
	if doctor.CreatedAt.IsZero() {
		doctor.CreatedAt = now
	}
	doctor.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.ClinicID,
		doctor.Name,
		doctor.Specialty,
		doctor.AppointmentPriceInCents,
		doctor.AvailableFromWeekday,
		doctor.AvailableToWeekday,
		doctor.AvailableFromTime,
		doctor.AvailableToTime,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return wrapWriteError("doctor", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT
			id, clinic_id, name, specialty, appointment_price_in_cents,
			available_from_weekday, available_to_weekday,
			available_from_time, available_to_time,
			created_at, updated_at
		FROM doctors
		WHERE id = $1
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

// Delete cascades removal of the doctor's appointments through the schema's
// foreign keys. Deleting an absent row is a no-op success; ownership is
// checked by the caller before the delete is issued.
func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM doctors WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapWriteError("doctor", err)
	}
	return nil
}

func (r *doctorRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Doctor, error) {
	query := `
		SELECT
			id, clinic_id, name, specialty, appointment_price_in_cents,
			available_from_weekday, available_to_weekday,
			available_from_time, available_to_time,
			created_at, updated_at
		FROM doctors
		WHERE clinic_id = $1
		ORDER BY name ASC
	`
	var doctors []*model.Doctor
	err := r.db.SelectContext(ctx, &doctors, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
