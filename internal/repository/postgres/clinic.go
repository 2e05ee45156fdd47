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

type clinicRepository struct {
	BaseRepository
}

func NewClinicRepository(base BaseRepository) repository.ClinicRepository {
	return &clinicRepository{base}
}

func (r *clinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	query := `
		INSERT INTO clinics (id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	clinic.ID = uuid.New()
	clinic.CreatedAt = time.Now()
	clinic.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		clinic.ID,
		clinic.Name,
		clinic.Address,
		clinic.CreatedAt,
		clinic.UpdatedAt,
	)
	if err != nil {
		return wrapWriteError("clinic", err)
	}
	return nil
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM clinics
		WHERE id = $1
	`
	var clinic model.Clinic
	err := r.db.GetContext(ctx, &clinic, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) Update(ctx context.Context, clinic *model.Clinic) error {
	query := `
		UPDATE clinics
		SET name = $1, address = $2, updated_at = $3
		WHERE id = $4
	`
	clinic.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		clinic.Name,
		clinic.Address,
		clinic.UpdatedAt,
		clinic.ID,
	)
	if err != nil {
		return wrapWriteError("clinic", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("clinic", nil)
	}

	return nil
}

// Delete cascades removal of owned doctors, patients, appointments and
// staff memberships through the schema's foreign keys.
func (r *clinicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM clinics WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapWriteError("clinic", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("clinic", nil)
	}

	return nil
}

func (r *clinicRepository) AddMember(ctx context.Context, clinicID, userID uuid.UUID) error {
	query := `
		INSERT INTO clinic_users (clinic_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (clinic_id, user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, clinicID, userID, time.Now())
	if err != nil {
		return wrapWriteError("clinic membership", err)
	}
	return nil
}

func (r *clinicRepository) ListMembers(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.password_hash, u.created_at, u.updated_at
		FROM users u
		JOIN clinic_users cu ON cu.user_id = u.id
		WHERE cu.clinic_id = $1
		ORDER BY u.name ASC
	`
	var users []*model.User
	err := r.db.SelectContext(ctx, &users, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinic members: %w", err)
	}
	return users, nil
}
