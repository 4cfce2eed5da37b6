package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dublin-research/dublin-geo/internal/model"
)

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		expected bool
	}{
		{"central Dublin", 53.35, -6.26, true},
		{"missing both", 0, 0, false},
		{"zero latitude", 0, -6.26, false},
		{"zero longitude", 53.35, 0, false},
		{"north of box", 53.7, -6.26, false},
		{"south of box", 53.0, -6.26, false},
		{"east of box", 53.35, -5.9, false},
		{"west of box", 53.35, -6.6, false},
		{"on south edge", 53.1, -6.26, true},
		{"on north edge", 53.6, -6.26, true},
		{"on west edge", 53.35, -6.5, true},
		{"on east edge", 53.35, -6.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidCoordinates(tt.lat, tt.lon))
		})
	}
}

func TestFilterCoordinates(t *testing.T) {
	points := []model.Point{
		{Row: 1, Latitude: 53.35, Longitude: -6.26},
		{Row: 2, Latitude: 0, Longitude: 0},
		{Row: 3, Latitude: 55.0, Longitude: -6.26},
		{Row: 4, Latitude: 53.2, Longitude: -6.4},
	}

	kept, dropped := FilterCoordinates(points)
	assert.Equal(t, 2, dropped)
	assert.Len(t, kept, 2)
	assert.Equal(t, 1, kept[0].Row)
	assert.Equal(t, 4, kept[1].Row)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"euro sign and commas", "€350,000", 350000.0, true},
		{"decimal cents", "€1,234,567.89", 1234567.89, true},
		{"plain number", "95000", 95000.0, true},
		{"empty", "", 0, false},
		{"no digits", "N/A", 0, false},
		{"multiple periods", "1.2.3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ParsePrice(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, v, 1e-9)
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		expected StatusFlags
	}{
		{
			name:     "granted",
			status:   "Decided - Granted with conditions",
			expected: StatusFlags{},
		},
		{
			name:     "refused",
			status:   "Decided - Refused",
			expected: StatusFlags{Rejected: true, Refused: true},
		},
		{
			name:     "withdrawn uppercase",
			status:   "WITHDRAWN BY APPLICANT",
			expected: StatusFlags{Rejected: true, Withdrawn: true},
		},
		{
			name:     "refused and withdrawn both count",
			status:   "Refused - Withdrawn by applicant",
			expected: StatusFlags{Rejected: true, Refused: true, Withdrawn: true},
		},
		{
			name:     "invalid alone is not rejected",
			status:   "Invalid application",
			expected: StatusFlags{Invalid: true},
		},
		{
			name:     "refusal wording variant",
			status:   "refusal recommended", // contains "refusa", not "refuse"
			expected: StatusFlags{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyStatus(tt.status))
		})
	}
}
