package reconcile

import (
	"context"
	"time"

	"fjacquet/sdp-connect/internal/logging"
	"fjacquet/sdp-connect/internal/registry"
	"fjacquet/sdp-connect/internal/report"

	"github.com/google/uuid"
)

// LoaderConfig holds the output locations of a Loader.
type LoaderConfig struct {
	// ErrorRegistryDir receives error registries; empty means next to the source.
	ErrorRegistryDir string
	// ReportDir receives run reports; empty disables them.
	ReportDir string
}

// Loader runs a registry end to end: read and validate, submit every row,
// then write the error registry when rows were rejected.
type Loader struct {
	reader  *registry.Reader
	writer  *registry.Writer
	driver  *Driver
	reports *report.ReportGenerator
	cfg     LoaderConfig
	logger  logging.Logger
	now     func() time.Time
}

// Run describes a completed Load.
type Run struct {
	ID            string
	Registry      *registry.Registry
	Result        *Result
	ErrorRegistry string
	Reports       []string
}

// NewLoader wires a Loader. reports may be nil.
func NewLoader(reader *registry.Reader, writer *registry.Writer, driver *Driver,
	reports *report.ReportGenerator, cfg LoaderConfig, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Loader{
		reader:  reader,
		writer:  writer,
		driver:  driver,
		reports: reports,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Check reads and validates the registry at path without submitting anything.
func (l *Loader) Check(path string) (*registry.Registry, error) {
	return l.reader.ReadFile(path)
}

// Load processes the registry at path.
//
// A registry failing validation returns its *registryerror.FormatError and
// no Run. When rows are rejected the Run is returned together with an error
// wrapping registryerror.ErrBatchRejected, or a *registryerror.WriteError if
// the error registry could not be written.
func (l *Loader) Load(ctx context.Context, path string) (*Run, error) {
	run := &Run{ID: uuid.NewString()}
	logger := l.logger.WithFields(
		logging.F(logging.FieldRunID, run.ID),
		logging.F(logging.FieldFile, path))
	started := l.now()

	logger.Info("Loading registry")
	reg, err := l.reader.ReadFile(path)
	if err != nil {
		logger.WithError(err).Error("Registry rejected before submission")
		return nil, err
	}
	run.Registry = reg
	run.Result = l.driver.Run(ctx, reg.Rows)

	if rejected := run.Result.Rejected(); len(rejected) > 0 {
		out := registry.ErrorRegistryPath(l.cfg.ErrorRegistryDir, path, started)
		if err := l.writer.Write(out, reg.Lines, rejected); err != nil {
			logger.WithError(err).Error("Failed to write error registry")
			return run, err
		}
		run.ErrorRegistry = out
	}

	if l.reports != nil && l.cfg.ReportDir != "" {
		summary := report.NewRunReport(run.ID, path, started, l.now(), run.Result.Outcomes)
		summary.ErrorRegistry = run.ErrorRegistry
		written, err := l.reports.WriteReports(l.cfg.ReportDir, summary)
		if err != nil {
			logger.WithError(err).Warn("Failed to write run report")
		}
		run.Reports = written
	}

	if err := run.Result.Err(); err != nil {
		logger.WithError(err).Error("Registry loaded with rejected rows",
			logging.F(logging.FieldOutputFile, run.ErrorRegistry))
		return run, err
	}

	logger.Info("Registry loaded successfully",
		logging.F(logging.FieldCount, len(reg.Rows)))
	return run, nil
}
