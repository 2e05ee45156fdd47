package doctor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validInput() *UpsertDoctorInput {
	return &UpsertDoctorInput{
		Name:                 "Dr. Ana",
		Specialty:            "cardiologia",
		AppointmentPrice:     150.00,
		AvailableFromWeekday: 1,
		AvailableToWeekday:   5,
		AvailableFromTime:    "08:00:00",
		AvailableToTime:      "18:00:00",
	}
}

func TestValidateUpsertAcceptsValidInput(t *testing.T) {
	assert.Nil(t, ValidateUpsert(validInput()))
}

func TestValidateUpsertAcceptsMinimumPrice(t *testing.T) {
	in := validInput()
	in.AppointmentPrice = 1
	assert.Nil(t, ValidateUpsert(in))
}

func TestValidateUpsertFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*UpsertDoctorInput)
		field   string
		message string
	}{
		{
			name:   "empty name",
			mutate: func(in *UpsertDoctorInput) { in.Name = "   " },
			field:  "name",
		},
		{
			name:   "empty specialty",
			mutate: func(in *UpsertDoctorInput) { in.Specialty = "" },
			field:  "specialty",
		},
		{
			name:    "specialty outside catalog",
			mutate:  func(in *UpsertDoctorInput) { in.Specialty = "alquimia" },
			field:   "specialty",
			message: "unknown specialty",
		},
		{
			name:   "zero price",
			mutate: func(in *UpsertDoctorInput) { in.AppointmentPrice = 0 },
			field:  "appointment_price",
		},
		{
			name:   "price below one",
			mutate: func(in *UpsertDoctorInput) { in.AppointmentPrice = 0.99 },
			field:  "appointment_price",
		},
		{
			name:   "negative from weekday",
			mutate: func(in *UpsertDoctorInput) { in.AvailableFromWeekday = -1 },
			field:  "available_from_weekday",
		},
		{
			name:   "to weekday above six",
			mutate: func(in *UpsertDoctorInput) { in.AvailableToWeekday = 7 },
			field:  "available_to_weekday",
		},
		{
			name:   "empty from time",
			mutate: func(in *UpsertDoctorInput) { in.AvailableFromTime = "" },
			field:  "available_from_time",
		},
		{
			name:   "malformed to time",
			mutate: func(in *UpsertDoctorInput) { in.AvailableToTime = "25:00:00" },
			field:  "available_to_time",
		},
		{
			name:   "missing seconds",
			mutate: func(in *UpsertDoctorInput) { in.AvailableFromTime = "08:00" },
			field:  "available_from_time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)

			fields := ValidateUpsert(in)
			assert.Contains(t, fields, tt.field)
			if tt.message != "" {
				assert.Equal(t, tt.message, fields[tt.field])
			}
		})
	}
}

func TestValidateUpsertTimeOrdering(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		ok   bool
	}{
		{name: "from before to", from: "08:00:00", to: "18:00:00", ok: true},
		{name: "one second apart", from: "08:00:00", to: "08:00:01", ok: true},
		{name: "equal times", from: "08:00:00", to: "08:00:00", ok: false},
		{name: "from after to", from: "18:00:00", to: "08:00:00", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.AvailableFromTime = tt.from
			in.AvailableToTime = tt.to

			fields := ValidateUpsert(in)
			if tt.ok {
				assert.Nil(t, fields)
			} else {
				// Cross-field failure is attached to the end-time field.
				assert.Contains(t, fields, "available_to_time")
				assert.NotContains(t, fields, "available_from_time")
			}
		})
	}
}

func TestValidateUpsertReportsAllFailuresTogether(t *testing.T) {
	in := &UpsertDoctorInput{
		Name:                 "",
		Specialty:            "",
		AppointmentPrice:     0,
		AvailableFromWeekday: -1,
		AvailableToWeekday:   9,
		AvailableFromTime:    "",
		AvailableToTime:      "bogus",
	}

	fields := ValidateUpsert(in)
	assert.Len(t, fields, 7)
}

func TestValidateUpsertWeekdaysNotCrossValidated(t *testing.T) {
	in := validInput()
	in.AvailableFromWeekday = 5
	in.AvailableToWeekday = 1

	assert.Nil(t, ValidateUpsert(in))
}
