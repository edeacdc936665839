// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManileeDev/clientpulse/internal/platform/apperr"
	"github.com/ManileeDev/clientpulse/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "Dark mode please", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validate.New()
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validate.New()
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Digit checks the single-digit rule used by the OTP entry grid.
*/
func TestValidator_Digit(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"single_digit", "7", true},
		{"zero", "0", true},
		{"letter", "a", false},
		{"two_digits", "42", false},
		{"empty", "", false},
		{"unicode_digit", "٧", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validate.New()
			v.Digit("value", tt.value)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Range checks inclusive bounds, as used for ratings and slot
indices.
*/
func TestValidator_Range(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		min     int
		max     int
		isValid bool
	}{
		{"inside", 3, 1, 5, true},
		{"lower_bound", 1, 1, 5, true},
		{"upper_bound", 5, 1, 5, true},
		{"below", 0, 1, 5, false},
		{"above", 6, 1, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validate.New()
			v.Range("rating", tt.value, tt.min, tt.max)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_OneOf checks the closed-set rule used for the role field.
*/
func TestValidator_OneOf(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"client", "client", true},
		{"developer", "developer", true},
		{"admin_rejected", "admin", false},
		{"empty_rejected", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validate.New()
			v.OneOf("role", tt.value, "client", "developer")

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := validate.New()

	// Multi-rule validation
	err := v.
		Required("fullname", "Manilee").
		MinLen("password", "long-enough-pw", 8).
		MaxLen("fullname", "Manilee", 50).
		Email("email", "manilee@example.com").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := validate.New()

	err := v.
		Required("fullname", "").       // Fails
		MinLen("password", "short", 8). // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
