package doctor

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/helioscare/clinic-api/internal/model"
)

// UpsertDoctorInput is a candidate doctor record as submitted by a caller.
// AppointmentPrice is in currency major units; it is converted to cents only
// after validation passes. Times are clinic-local "HH:MM:SS" strings.
type UpsertDoctorInput struct {
	ID                   *uuid.UUID `json:"id,omitempty"`
	Name                 string     `json:"name"`
	Specialty            string     `json:"specialty"`
	AppointmentPrice     float64    `json:"appointment_price"`
	AvailableFromWeekday int        `json:"available_from_weekday"`
	AvailableToWeekday   int        `json:"available_to_weekday"`
	AvailableFromTime    string     `json:"available_from_time"`
	AvailableToTime      string     `json:"available_to_time"`
}

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`)

// ValidateUpsert checks every rule and reports all failing fields together,
// one message per field. The cross-field time-order rule only runs once both
// time fields are well-formed; its failure is attached to available_to_time.
// The weekday fields are deliberately not cross-validated against each
// other: a from>to range is stored as-is and tagged ambiguous downstream.
func ValidateUpsert(in *UpsertDoctorInput) map[string]string {
	fields := make(map[string]string)

	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}

	switch specialty := strings.TrimSpace(in.Specialty); {
	case specialty == "":
		fields["specialty"] = "specialty is required"
	case !model.IsKnownSpecialty(specialty):
		fields["specialty"] = "unknown specialty"
	}

	if in.AppointmentPrice < 1 {
		fields["appointment_price"] = "appointment price must be at least 1"
	}

	if in.AvailableFromWeekday < 0 || in.AvailableFromWeekday > 6 {
		fields["available_from_weekday"] = "weekday must be between 0 and 6"
	}
	if in.AvailableToWeekday < 0 || in.AvailableToWeekday > 6 {
		fields["available_to_weekday"] = "weekday must be between 0 and 6"
	}

	fromOK := validateTimeOfDay(fields, "available_from_time", in.AvailableFromTime)
	toOK := validateTimeOfDay(fields, "available_to_time", in.AvailableToTime)

	// Fixed-width zero-padded HH:MM:SS strings order lexicographically the
	// same way they order chronologically.
	if fromOK && toOK && in.AvailableFromTime >= in.AvailableToTime {
		fields["available_to_time"] = "end time must be after start time"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

func validateTimeOfDay(fields map[string]string, name, value string) bool {
	if value == "" {
		fields[name] = "time is required"
		return false
	}
	if !timeOfDayPattern.MatchString(value) {
		fields[name] = "time must be in HH:MM:SS 24-hour format"
		return false
	}
	return true
}
