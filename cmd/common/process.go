// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/sdp-connect/internal/config"
	"fjacquet/sdp-connect/internal/container"
	"fjacquet/sdp-connect/internal/dateutils"
	"fjacquet/sdp-connect/internal/fileutils"
	"fjacquet/sdp-connect/internal/logging"
	"fjacquet/sdp-connect/internal/reconcile"
	"fjacquet/sdp-connect/internal/registry"
)

// ResolveRegistry returns the path of the registry called name, looking it up
// in the configured registry directory when it is relative and not found.
func ResolveRegistry(cfg *config.Config, name string) string {
	return fileutils.ResolvePath(name, cfg.Paths.Registry)
}

// ProcessRegistry loads one registry end to end. Its log goes to a file named
// after the registry in the configured log directory as well as to stderr.
func ProcessRegistry(ctx context.Context, cfg *config.Config, path string, opts ...container.Option) (*reconcile.Run, error) {
	if err := cfg.ValidateForSubmission(); err != nil {
		return nil, err
	}

	logger, closer, err := logging.NewRunLogger(cfg.Log.Level, cfg.Log.Format, cfg.Paths.Log, runName(path, time.Now()))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close run log")
		}
	}()

	c, err := container.NewContainer(cfg, logger, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = c.Close()
	}()

	return c.GetLoader().Load(ctx, path)
}

// CheckRegistry reads and validates a registry without submitting it.
func CheckRegistry(cfg *config.Config, path string, logger logging.Logger) (*registry.Registry, error) {
	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = c.Close()
	}()

	return c.GetLoader().Check(path)
}

// Summary describes the result of a run in one line.
func Summary(run *reconcile.Run) string {
	if run == nil || run.Result == nil {
		return "registry was not submitted"
	}
	total := len(run.Result.Outcomes)
	rejected := total - run.Result.Accepted()
	if rejected == 0 {
		return fmt.Sprintf("%d row(s) accepted", total)
	}
	if run.ErrorRegistry == "" {
		return fmt.Sprintf("%d of %d row(s) rejected", rejected, total)
	}
	return fmt.Sprintf("%d of %d row(s) rejected, see %s", rejected, total, run.ErrorRegistry)
}

func runName(path string, now time.Time) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_" + dateutils.FileStamp(now)
}
