package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSONPayload(t *testing.T) {
	phone := "081234567890"
	raw, err := Payload{ID: "emp-1", Name: "Siti", DepartmentID: "field", Phone: &phone}.Encode()
	require.NoError(t, err)

	p, err := Decode(string(raw))
	require.NoError(t, err)
	assert.Equal(t, "emp-1", p.ID)
	assert.Equal(t, "Siti", p.Name)
	assert.Equal(t, "field", p.DepartmentID)
	require.NotNil(t, p.Phone)
	assert.Equal(t, phone, *p.Phone)
}

func TestDecode_BareID(t *testing.T) {
	p, err := Decode("  emp-42 \n")
	require.NoError(t, err)
	assert.Equal(t, Payload{ID: "emp-42"}, p)
}

func TestDecode_BrokenJSONFallsBackToID(t *testing.T) {
	p, err := Decode(`{"id":`)
	require.NoError(t, err)
	assert.Equal(t, `{"id":`, p.ID)
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode("   ")
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestEncode_OmitsMissingPhone(t *testing.T) {
	raw, err := Payload{ID: "emp-1", Name: "Siti", DepartmentID: "field"}.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"emp-1","name":"Siti","departmentId":"field"}`, string(raw))
}
