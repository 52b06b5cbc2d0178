// Package container provides dependency injection for the sdp-connect application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/sdp-connect/internal/config"
	"fjacquet/sdp-connect/internal/logging"
	"fjacquet/sdp-connect/internal/reconcile"
	"fjacquet/sdp-connect/internal/registry"
	"fjacquet/sdp-connect/internal/report"
	"fjacquet/sdp-connect/internal/sdp"
)

// Option customizes a Container during creation.
type Option func(*options)

type options struct {
	gateway sdp.Gateway
}

// WithGateway replaces the SOAP client with the given gateway.
func WithGateway(gateway sdp.Gateway) Option {
	return func(o *options) {
		o.gateway = gateway
	}
}

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger  logging.Logger
	config  *config.Config
	gateway sdp.Gateway
	reader  *registry.Reader
	writer  *registry.Writer
	driver  *reconcile.Driver
	reports *report.ReportGenerator
	loader  *reconcile.Loader
}

// NewContainer creates and wires all application dependencies.
// When logger is nil a logger is built from the log section of cfg.
func NewContainer(cfg *config.Config, logger logging.Logger, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	enc, err := registry.LookupEncoding(cfg.Registry.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to set up registry encoding: %w", err)
	}

	gateway := o.gateway
	if gateway == nil {
		gateway = sdp.NewSOAPClient(sdp.ClientConfig{
			URL:       cfg.Gateway.URL,
			Namespace: cfg.Gateway.Namespace,
			Timeout:   cfg.GatewayTimeout(),
		}, logger)
	}

	reader := registry.NewReader(enc, logger)
	writer := registry.NewWriter(enc, cfg.Registry.ErrorMarker, logger)
	driver := reconcile.NewDriver(gateway, cfg.Agent, logger)
	reports := report.NewReportGenerator(logger)

	loaderCfg := reconcile.LoaderConfig{ErrorRegistryDir: cfg.Paths.ErrorRegistry}
	if cfg.Report.Enabled {
		loaderCfg.ReportDir = cfg.Report.Directory
	}
	loader := reconcile.NewLoader(reader, writer, driver, reports, loaderCfg, logger)

	logger.Debug("Container initialized",
		logging.F("encoding", cfg.Registry.Encoding),
		logging.F("error_marker", cfg.Registry.ErrorMarker),
		logging.F("reports_enabled", cfg.Report.Enabled))

	return &Container{
		logger:  logger,
		config:  cfg,
		gateway: gateway,
		reader:  reader,
		writer:  writer,
		driver:  driver,
		reports: reports,
		loader:  loader,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetGateway returns the payment service gateway.
func (c *Container) GetGateway() sdp.Gateway {
	return c.gateway
}

// GetReader returns the registry reader.
func (c *Container) GetReader() *registry.Reader {
	return c.reader
}

// GetWriter returns the error registry writer.
func (c *Container) GetWriter() *registry.Writer {
	return c.writer
}

// GetDriver returns the reconciliation driver.
func (c *Container) GetDriver() *reconcile.Driver {
	return c.driver
}

// GetReportGenerator returns the run report generator.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}

// GetLoader returns the end-to-end registry loader.
func (c *Container) GetLoader() *reconcile.Loader {
	return c.loader
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
