package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Name  string  `json:"name" validate:"required,max=10"`
	Role  string  `json:"role" validate:"oneof=WORKER ADMIN"`
	Start *string `json:"shift_start,omitempty" validate:"omitempty,hhmm"`
	Lat   float64 `json:"latitude" validate:"latitude"`
	Skip  string  `json:"-"`
}

func TestStruct_Valid(t *testing.T) {
	start := "08:30"
	errs := Struct(sampleRequest{Name: "Dewi", Role: "WORKER", Start: &start, Lat: -6.2})
	assert.Empty(t, errs)
}

func TestStruct_UsesJSONFieldNames(t *testing.T) {
	start := "8 o'clock"
	errs := Struct(sampleRequest{Role: "OWNER", Start: &start, Lat: 91})

	details := errs.ToMap()
	assert.Equal(t, "name is required", details["name"])
	assert.Equal(t, "role must be one of: WORKER, ADMIN", details["role"])
	assert.Equal(t, "shift_start must be in HH:MM format", details["shift_start"])
	assert.Equal(t, "latitude must be between -90 and 90", details["latitude"])
}
