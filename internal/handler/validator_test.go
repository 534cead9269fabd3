package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Snowflake(t *testing.T) {
	InitValidator()
	v := GetValidator()

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"discord id", "123456789012345678", false},
		{"small id", "1", false},
		{"zero", "0", true},
		{"negative", "-5", true},
		{"not a number", "abc", true},
		{"overflow", "99999999999999999999", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(idParam{ID: tt.id})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatValidationError(t *testing.T) {
	err := GetValidator().ValidateStruct(idParam{ID: "x"})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "Must be a positive numeric id", fields["id"])

	err = GetValidator().ValidateStruct(pageQuery{Offset: "ten"})
	require.Error(t, err)
	assert.Equal(t, "Must be a number", FormatValidationError(err)["offset"])

	assert.Nil(t, FormatValidationError(nil))
	assert.Equal(t, "Invalid request format", FormatValidationError(assert.AnError)["error"])
}
