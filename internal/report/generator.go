// Package report writes the per-run status report: one CSV line per row plus
// a summary document.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"fjacquet/sdp-connect/internal/fileutils"
	"fjacquet/sdp-connect/internal/logging"
	"fjacquet/sdp-connect/internal/models"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// Supported report formats
const (
	FormatCSV  = "csv"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ReportGenerator provides functionality to generate run reports in various formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ReportGenerator{
		logger: logger.WithField("component", "ReportGenerator"),
	}
}

// GenerateReport renders the report in the specified format (csv, yaml or json).
// The csv format holds the rows, yaml the summary, json both.
func (g *ReportGenerator) GenerateReport(report *RunReport, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return g.generateCSVReport(report)
	case FormatYAML:
		return g.generateYAMLReport(report)
	case FormatJSON:
		return g.generateJSONReport(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateCSVReport(report *RunReport) ([]byte, error) {
	rows := report.Rows
	if rows == nil {
		rows = []RowRecord{}
	}
	csvReport, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	return csvReport, nil
}

func (g *ReportGenerator) generateYAMLReport(report *RunReport) ([]byte, error) {
	yamlReport, err := yaml.Marshal(report)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return yamlReport, nil
}

func (g *ReportGenerator) generateJSONReport(report *RunReport) ([]byte, error) {
	jsonReport, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return jsonReport, nil
}

// WriteReports stores the CSV rows and the YAML summary of report in dir as
// <stem>_<run id>.csv and <stem>_<run id>.yaml, returning both paths.
func (g *ReportGenerator) WriteReports(dir string, report *RunReport) ([]string, error) {
	base := filepath.Base(report.Registry)
	stem := base[:len(base)-len(filepath.Ext(base))]

	var written []string
	for _, format := range []string{FormatCSV, FormatYAML} {
		data, err := g.GenerateReport(report, format)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", stem, report.RunID, format))
		if err := fileutils.WriteFile(path, data, models.PermissionReportFile); err != nil {
			return written, fmt.Errorf("failed to write %s report: %w", format, err)
		}
		written = append(written, path)
	}

	g.logger.Info("Run report written",
		logging.F(logging.FieldRunID, report.RunID),
		logging.F(logging.FieldOutputFile, written[0]))
	return written, nil
}
