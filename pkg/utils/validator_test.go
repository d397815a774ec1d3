package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("billing@acme.test"))
	assert.Error(t, ValidateEmail("billing@acme"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidateISODate(t *testing.T) {
	assert.NoError(t, ValidateISODate("2024-03-05"))
	assert.Error(t, ValidateISODate("05/03/2024"))
	assert.Error(t, ValidateISODate("2024-02-30"))
}

func TestValidatePercent(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"0", false},
		{"18", false},
		{"100", false},
		{"100.01", true},
		{"-1", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := ValidatePercent("discount", decimal.RequireFromString(tt.value))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(decimal.Zero))
	assert.Error(t, ValidateAmount(decimal.NewFromInt(-5)))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "line one\nline two\ttab", SanitizeString("line one\nline\x00 two\ttab\x7f"))
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
	assert.Equal(t, "a\nb", SanitizeString("a\nb\x1b"))
}
