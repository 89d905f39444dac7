package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		loc      *time.Location
		validate func(t *testing.T, date time.Time, err error)
	}{
		{
			name:  "Data válida",
			input: "2025-03-20",
			validate: func(t *testing.T, date time.Time, err error) {
				require.NoError(t, err)
				assert.Equal(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), date)
			},
		},
		{
			name:  "Fuso informado",
			input: "2025-03-20",
			loc:   time.FixedZone("BRT", -3*60*60),
			validate: func(t *testing.T, date time.Time, err error) {
				require.NoError(t, err)
				assert.Equal(t, time.Date(2025, 3, 20, 3, 0, 0, 0, time.UTC), date.UTC())
			},
		},
		{
			name:  "Data vazia",
			input: "",
			validate: func(t *testing.T, date time.Time, err error) {
				assert.Error(t, err)
				assert.True(t, date.IsZero())
			},
		},
		{
			name:  "Formato inválido",
			input: "20/03/2025",
			validate: func(t *testing.T, date time.Time, err error) {
				assert.ErrorContains(t, err, "invalid date")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseDate(tt.input, tt.loc)
			tt.validate(t, date, err)
		})
	}
}

func TestRoundTwoPlaces(t *testing.T) {
	assert.Equal(t, 0.0, RoundTwoPlaces(0))
	assert.Equal(t, 10.13, RoundTwoPlaces(10.125))
	assert.Equal(t, 33.33, RoundTwoPlaces(33.3333))
	assert.Equal(t, -1.5, RoundTwoPlaces(-1.499999))
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID()
	require.NoError(t, err)
	assert.Len(t, id, 6)
}
