package msisdn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trunk zero safaricom", "0712345678", "254712345678"},
		{"trunk zero airtel range", "0112345678", "254112345678"},
		{"full country code", "254712345678", "254712345678"},
		{"plus prefix", "+254712345678", "254712345678"},
		{"spaces and dashes", " 0712-345-678 ", "254712345678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"too short", "07123"},
		{"too long", "25471234567890"},
		{"wrong country", "255712345678"},
		{"landline prefix", "254212345678"},
		{"letters only", "not-a-number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first, err := Normalize("0712345678")
	require.NoError(t, err)
	second, err := Normalize(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalize_TrunkAndFullFormsAgree(t *testing.T) {
	trunk, err := Normalize("0712345678")
	require.NoError(t, err)
	full, err := Normalize("254712345678")
	require.NoError(t, err)
	assert.Equal(t, full, trunk)
}
