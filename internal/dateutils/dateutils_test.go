package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegistryDateTime(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		clock    string
		expected time.Time
		hasError bool
	}{
		{"valid timestamp", "14-03-2017", "09-05-30", time.Date(2017, 3, 14, 9, 5, 30, 0, time.UTC), false},
		{"end of year", "31-12-2016", "23-59-59", time.Date(2016, 12, 31, 23, 59, 59, 0, time.UTC), false},
		{"dotted date rejected", "14.03.2017", "09-05-30", time.Time{}, true},
		{"colon time rejected", "14-03-2017", "09:05:30", time.Time{}, true},
		{"ISO date rejected", "2017-03-14", "09-05-30", time.Time{}, true},
		{"invalid month", "14-13-2017", "09-05-30", time.Time{}, true},
		{"empty fields", "", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseRegistryDateTime(tt.date, tt.clock)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(result), "expected %v, got %v", tt.expected, result)
		})
	}
}

func TestParseRegistryDateTime_ErrorMentionsValue(t *testing.T) {
	_, err := ParseRegistryDateTime("14/03/2017", "09-05-30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "14/03/2017 09-05-30")
}

func TestFileStamp(t *testing.T) {
	ts := time.Date(2017, 3, 14, 9, 5, 30, 0, time.UTC)
	assert.Equal(t, "20170314_090530", FileStamp(ts))
}
