package model

import (
	"github.com/google/uuid"
)

// Doctor is a practitioner record scoped to one clinic. Availability times
// are stored as UTC-normalized "HH:MM:SS" strings; weekdays use 0=Sunday
// through 6=Saturday.
type Doctor struct {
	Base
	ClinicID                uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name                    string    `db:"name" json:"name"`
	Specialty               string    `db:"specialty" json:"specialty"`
	AppointmentPriceInCents int64     `db:"appointment_price_in_cents" json:"appointment_price_in_cents"`
	AvailableFromWeekday    int       `db:"available_from_weekday" json:"available_from_weekday"`
	AvailableToWeekday      int       `db:"available_to_weekday" json:"available_to_weekday"`
	AvailableFromTime       string    `db:"available_from_time" json:"available_from_time"`
	AvailableToTime         string    `db:"available_to_time" json:"available_to_time"`
}

// WeekdayRangeKind tags how a doctor's weekday range should be read.
type WeekdayRangeKind string

const (
	// WeekdayRangeLinear means from <= to, a plain closed range.
	WeekdayRangeLinear WeekdayRangeKind = "linear"
	// WeekdayRangeAmbiguous means from > to. The schema permits it but no
	// wraparound semantics are defined; consumers must treat it explicitly.
	WeekdayRangeAmbiguous WeekdayRangeKind = "ambiguous"
)

// WeekdayRangeOf classifies the doctor's weekday range without guessing
// wraparound semantics.
func WeekdayRangeOf(from, to int) WeekdayRangeKind {
	if from > to {
		return WeekdayRangeAmbiguous
	}
	return WeekdayRangeLinear
}
