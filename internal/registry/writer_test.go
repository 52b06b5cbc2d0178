package registry

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/sdp-connect/internal/logging"
	"fjacquet/sdp-connect/internal/models"
	"fjacquet/sdp-connect/internal/registryerror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func readSample(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewReader(nil, logging.NewMockLogger()).ReadFile(writeRegistry(t, sampleLines()))
	require.NoError(t, err)
	return reg
}

func TestWriter_Render(t *testing.T) {
	reg := readSample(t)
	rejected := []models.Row{reg.Rows[0], reg.Rows[2]}

	tests := []struct {
		name          string
		includeMarker bool
		expected      []string
	}{
		{
			name:          "with marker",
			includeMarker: true,
			expected:      []string{reg.Lines[0], reg.Lines[2], "=", "2;1525,10;1510,00;15,10;;"},
		},
		{
			name:          "without marker",
			includeMarker: false,
			expected:      []string{reg.Lines[0], reg.Lines[2], "2;1525,10;1510,00;15,10;;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(nil, tt.includeMarker, logging.NewMockLogger())

			content, err := w.Render(reg.Lines, rejected)
			require.NoError(t, err)
			assert.Equal(t, strings.Join(tt.expected, "\r\n")+"\r\n", content)
		})
	}
}

func TestWriter_Render_IndexOutOfRange(t *testing.T) {
	w := NewWriter(nil, true, logging.NewMockLogger())

	_, err := w.Render([]string{"a"}, []models.Row{{Index: 2}})
	assert.Error(t, err)

	_, err = w.Render([]string{"a"}, []models.Row{{Index: 0}})
	assert.Error(t, err)
}

func TestWriter_Write_EncodesWindows1251(t *testing.T) {
	reg := readSample(t)
	out := filepath.Join(t.TempDir(), "errors", "registry_rejected.txt")
	logger := logging.NewMockLogger()

	err := NewWriter(charmap.Windows1251, true, logger).Write(out, reg.Lines, reg.Rows[1:2])
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
	require.NoError(t, err)
	assert.Equal(t, reg.Lines[1]+"\r\n=\r\n1;202,50;200,50;2,00;;\r\n", string(decoded))
	assert.NotContains(t, string(data), "Иванов", "file must not be UTF-8")

	assert.True(t, logger.HasEntry("INFO", "Error registry written"))
}

func TestWriter_Write_ReplacesUndefinedBytes(t *testing.T) {
	src := writeRegistry(t, sampleLines())
	raw, err := os.ReadFile(src)
	require.NoError(t, err)
	// 0x98 has no character assigned in Windows-1251
	raw = bytes.Replace(raw, []byte(";RUB;"), []byte(";RUB\x98;"), 1)
	require.NoError(t, os.WriteFile(src, raw, 0600))

	reg, err := NewReader(charmap.Windows1251, logging.NewMockLogger()).ReadFile(src)
	require.NoError(t, err)
	require.Contains(t, reg.Lines[0], "\uFFFD")

	out := filepath.Join(t.TempDir(), "rejected.txt")
	logger := logging.NewMockLogger()

	err = NewWriter(charmap.Windows1251, true, logger).Write(out, reg.Lines, reg.Rows[:1])
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), ";RUB\x1a;")
	assert.True(t, logger.HasEntry("WARN", "Error registry contains characters the registry encoding cannot represent, replacing them"))
	assert.True(t, logger.HasEntry("INFO", "Error registry written"))

	again, err := NewReader(charmap.Windows1251, logging.NewMockLogger()).ReadFile(out)
	require.NoError(t, err)
	require.Len(t, again.Rows, 1)
	assert.Equal(t, reg.Rows[0].ID, again.Rows[0].ID)
}

func TestWriter_Write_RoundTrip(t *testing.T) {
	reg := readSample(t)
	rejected := []models.Row{reg.Rows[0], reg.Rows[2]}
	out := filepath.Join(t.TempDir(), "rejected.txt")

	require.NoError(t, NewWriter(nil, true, logging.NewMockLogger()).Write(out, reg.Lines, rejected))

	again, err := NewReader(nil, logging.NewMockLogger()).ReadFile(out)
	require.NoError(t, err)

	require.Len(t, again.Rows, len(rejected))
	for i, row := range again.Rows {
		assert.Equal(t, i+1, row.Index)
		assert.Equal(t, rejected[i].ID, row.ID)
		assert.Equal(t, rejected[i].CardNumber, row.CardNumber)
		assert.True(t, rejected[i].Amount.Equal(row.Amount))
		assert.Equal(t, rejected[i].Date, row.Date)
	}
	assert.True(t, models.SumRows(rejected).Equal(again.Control))
}

func TestWriter_Write_WithoutMarkerIsNotReadable(t *testing.T) {
	reg := readSample(t)
	out := filepath.Join(t.TempDir(), "rejected.txt")

	require.NoError(t, NewWriter(nil, false, logging.NewMockLogger()).Write(out, reg.Lines, reg.Rows[:1]))

	_, err := NewReader(nil, logging.NewMockLogger()).ReadFile(out)
	assert.True(t, errors.Is(err, registryerror.ErrMissingControlMarker))
}

func TestWriter_Write_Failure(t *testing.T) {
	reg := readSample(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	err := NewWriter(nil, true, logging.NewMockLogger()).Write(filepath.Join(blocker, "out.txt"), reg.Lines, reg.Rows[:1])

	require.Error(t, err)
	assert.True(t, errors.Is(err, registryerror.ErrWrite))
	var writeErr *registryerror.WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, filepath.Join(blocker, "out.txt"), writeErr.FilePath)
}

func TestErrorRegistryPath(t *testing.T) {
	now := time.Date(2017, 3, 14, 9, 5, 30, 0, time.UTC)

	tests := []struct {
		name     string
		dir      string
		source   string
		expected string
	}{
		{
			name:     "output directory",
			dir:      "/data/errors",
			source:   "/data/in/reestr_0314.txt",
			expected: filepath.Join("/data/errors", "reestr_0314_rejected_20170314_090530.txt"),
		},
		{
			name:     "same directory as source",
			dir:      "",
			source:   "/data/in/reestr.txt",
			expected: filepath.Join("/data/in", "reestr_rejected_20170314_090530.txt"),
		},
		{
			name:     "no extension",
			dir:      "/out",
			source:   "reestr",
			expected: filepath.Join("/out", "reestr_rejected_20170314_090530"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorRegistryPath(tt.dir, tt.source, now))
		})
	}
}
