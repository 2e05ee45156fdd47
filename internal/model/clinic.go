package model

import (
	"time"

	"github.com/google/uuid"
)

type Clinic struct {
	Base
	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address"`
}

// ClinicUser is the staff membership relation between users and clinics.
type ClinicUser struct {
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinic_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
