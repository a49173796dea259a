package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInquiryDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "Serial", input: "45000", want: utcDay(2023, 3, 15)},
		{name: "Serial with time fraction", input: "45000.5", want: time.Date(2023, 3, 15, 12, 0, 0, 0, time.UTC)},
		{name: "Unix epoch serial", input: "25569", want: utcDay(1970, 1, 1)},
		{name: "ISO date", input: "2024-01-15", want: utcDay(2024, 1, 15)},
		{name: "Date time", input: "2024-01-15 09:30:00", want: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)},
		{name: "RFC3339 with offset", input: "2024-01-15T09:00:00+09:00", want: utcDay(2024, 1, 15)},
		{name: "Slashes", input: "2024/01/15", want: utcDay(2024, 1, 15)},
		{name: "Dots", input: "2024.01.15", want: utcDay(2024, 1, 15)},
		{name: "Surrounding spaces", input: " 2024-01-15 ", want: utcDay(2024, 1, 15)},
		{name: "Blank", input: "  ", wantErr: true},
		{name: "Garbage", input: "어제", wantErr: true},
		{name: "Impossible date", input: "2024-02-30", wantErr: true},
		{name: "NaN", input: "NaN", wantErr: true},
		{name: "Infinity", input: "Inf", wantErr: true},
		{name: "Signed infinity", input: "-Infinity", wantErr: true},
		{name: "Hex float", input: "0x1p4", wantErr: true},
		{name: "Exponent", input: "4.5e4", wantErr: true},
		{name: "Negative serial", input: "-1", wantErr: true},
		{name: "Bare year", input: "2024", want: utcDay(2024, 1, 1)},
		{name: "Small serial", input: "60", want: utcDay(1900, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInquiryDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}
