package registry

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/sdp-connect/internal/dateutils"
	"fjacquet/sdp-connect/internal/fileutils"
	"fjacquet/sdp-connect/internal/logging"
	"fjacquet/sdp-connect/internal/models"
	"fjacquet/sdp-connect/internal/registryerror"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// lineEnding terminates every line of a written registry.
const lineEnding = "\r\n"

// rejectedSuffix is inserted between the source name and the timestamp of an
// error registry file.
const rejectedSuffix = "_rejected_"

// Writer produces error registries: the verbatim text of rejected lines
// followed by a control line computed over those lines only.
type Writer struct {
	encoding      encoding.Encoding
	includeMarker bool
	logger        logging.Logger
}

// NewWriter creates a Writer. When includeMarker is false the "=" line is
// left out before the control line, matching older registry producers; such
// files are not accepted back by Reader.
func NewWriter(enc encoding.Encoding, includeMarker bool, logger logging.Logger) *Writer {
	if enc == nil {
		enc = charmap.Windows1251
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Writer{
		encoding:      enc,
		includeMarker: includeMarker,
		logger:        logger,
	}
}

// Render builds the error registry text for rejected, taking each line from
// lines by the row index. Rows keep the order they are given in.
func (w *Writer) Render(lines []string, rejected []models.Row) (string, error) {
	var b strings.Builder
	for _, row := range rejected {
		pos := row.Index - 1
		if pos < 0 || pos >= len(lines) {
			return "", fmt.Errorf("row index %d outside registry of %d lines", row.Index, len(lines))
		}
		b.WriteString(lines[pos])
		b.WriteString(lineEnding)
	}
	if w.includeMarker {
		b.WriteString(models.ControlMarker)
		b.WriteString(lineEnding)
	}
	b.WriteString(FormatControlLine(models.SumRows(rejected)))
	b.WriteString(lineEnding)
	return b.String(), nil
}

// Write renders the error registry and stores it at path in the registry
// encoding. Any failure is returned as a *registryerror.WriteError.
func (w *Writer) Write(path string, lines []string, rejected []models.Row) error {
	content, err := w.Render(lines, rejected)
	if err != nil {
		return &registryerror.WriteError{FilePath: path, Err: err}
	}

	data, err := w.encoding.NewEncoder().Bytes([]byte(content))
	if err != nil {
		// Lines read from bytes the encoding leaves undefined come back as
		// U+FFFD, which has no encoding of its own.
		w.logger.WithError(err).Warn("Error registry contains characters the registry encoding cannot represent, replacing them",
			logging.F(logging.FieldOutputFile, path))
		data, err = encoding.ReplaceUnsupported(w.encoding.NewEncoder()).Bytes([]byte(content))
		if err != nil {
			return &registryerror.WriteError{FilePath: path, Err: fmt.Errorf("failed to encode registry: %w", err)}
		}
	}

	if err := fileutils.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return &registryerror.WriteError{FilePath: path, Err: err}
	}

	w.logger.Info("Error registry written",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldRejected, len(rejected)))
	return nil
}

// ErrorRegistryPath names the error registry for source inside dir:
// <stem>_rejected_<yyyyMMdd_HHmmss><ext>. An empty dir keeps the source
// directory.
func ErrorRegistryPath(dir, source string, now time.Time) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, stem+rejectedSuffix+dateutils.FileStamp(now)+ext)
}
