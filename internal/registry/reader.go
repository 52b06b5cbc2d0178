// Package registry reads payment registries, checks them against their
// control line and writes error registries holding the rejected lines.
package registry

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fjacquet/sdp-connect/internal/codec"
	"fjacquet/sdp-connect/internal/fileutils"
	"fjacquet/sdp-connect/internal/logging"
	"fjacquet/sdp-connect/internal/models"
	"fjacquet/sdp-connect/internal/registryerror"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// DefaultEncoding is the code page registries are written in.
const DefaultEncoding = "windows-1251"

// maxLineSize bounds a single registry line.
const maxLineSize = 1024 * 1024

// Registry is a registry file that passed every structural and checksum check.
type Registry struct {
	Path    string
	Lines   []string
	Rows    []models.Row
	Control models.ControlLine
}

// PayloadLines returns the raw payload lines, without marker and control line.
func (r *Registry) PayloadLines() []string {
	if len(r.Lines) < 2 {
		return nil
	}
	return r.Lines[:len(r.Lines)-2]
}

// LookupEncoding resolves an IANA charset name. An empty name selects
// DefaultEncoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown registry encoding '%s': %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported registry encoding '%s'", name)
	}
	return enc, nil
}

// Reader loads and validates registries.
type Reader struct {
	encoding encoding.Encoding
	logger   logging.Logger
}

// NewReader creates a Reader decoding files with enc. A nil enc selects
// Windows-1251.
func NewReader(enc encoding.Encoding, logger logging.Logger) *Reader {
	if enc == nil {
		enc = charmap.Windows1251
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Reader{
		encoding: enc,
		logger:   logger,
	}
}

// ReadFile opens and reads the registry at path.
func (r *Reader) ReadFile(path string) (*Registry, error) {
	r.logger.Info("Opening registry", logging.F(logging.FieldFile, path))

	file, err := fileutils.OpenFile(path)
	if err != nil {
		return nil, &registryerror.FormatError{FilePath: path, Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			r.logger.WithError(closeErr).Warn("Failed to close registry",
				logging.F(logging.FieldFile, path))
		}
	}()

	return r.Read(path, file)
}

// Read parses a registry from src. name identifies the source in errors and
// logs.
//
// Any failure aborts the whole registry and is returned as a
// *registryerror.FormatError.
func (r *Reader) Read(name string, src io.Reader) (*Registry, error) {
	logger := r.logger.WithField(logging.FieldFile, name)

	lines, err := r.readLines(src)
	if err != nil {
		return nil, formatError(name, err)
	}
	if len(lines) == 0 {
		return nil, formatError(name, registryerror.ErrEmptyRegistry)
	}
	if len(lines) < 3 || lines[len(lines)-2] != models.ControlMarker {
		return nil, formatError(name, registryerror.ErrMissingControlMarker)
	}

	control, err := ParseControlLine(codec.Split(lines[len(lines)-1]))
	if err != nil {
		logger.WithError(err).Error("Malformed control line",
			logging.F(logging.FieldRawLine, lines[len(lines)-1]))
		return nil, formatError(name, err)
	}

	reg := &Registry{
		Path:    name,
		Lines:   lines,
		Control: control,
	}
	payload := reg.PayloadLines()
	if err := checkFieldCounts(payload, logger); err != nil {
		return nil, formatError(name, err)
	}

	rows := make([]models.Row, 0, len(payload))
	for i, line := range payload {
		row, err := codec.ParseRow(i+1, line)
		if err != nil {
			logger.WithError(err).Error("Failed to convert payload line",
				logging.F(logging.FieldLine, i+1),
				logging.F(logging.FieldRawLine, line))
			return nil, formatError(name, err)
		}
		rows = append(rows, row)
	}

	if mismatches := Compare(rows, control); len(mismatches) > 0 {
		details := make([]string, len(mismatches))
		for i, m := range mismatches {
			details[i] = fmt.Sprintf("%s expected %s, got %s", m.Field, m.Expected, m.Actual)
			logger.Error("Control line mismatch",
				logging.F("field", m.Field),
				logging.F("expected", m.Expected),
				logging.F("actual", m.Actual))
		}
		return nil, formatError(name, fmt.Errorf("%w: %s",
			registryerror.ErrChecksumMismatch, strings.Join(details, "; ")))
	}

	logger.Info("Control line matches registry data", logging.F(logging.FieldCount, len(rows)))

	reg.Rows = rows
	return reg, nil
}

func (r *Reader) readLines(src io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(transform.NewReader(src, r.encoding.NewDecoder()))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read registry lines: %w", err)
	}
	return lines, nil
}

// checkFieldCounts reports every payload line that does not split into the
// expected number of fields, not only the first one.
func checkFieldCounts(payload []string, logger logging.Logger) error {
	var bad []registryerror.BadLine
	for i, line := range payload {
		if len(codec.Split(line)) != codec.PayloadFieldCount {
			bad = append(bad, registryerror.BadLine{Line: i + 1, Text: line})
			logger.Error("Payload line has wrong field count",
				logging.F(logging.FieldLine, i+1),
				logging.F(logging.FieldRawLine, line))
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return &registryerror.BadLinesError{Expected: codec.PayloadFieldCount, Lines: bad}
}

func formatError(path string, err error) error {
	return &registryerror.FormatError{FilePath: path, Err: err}
}
