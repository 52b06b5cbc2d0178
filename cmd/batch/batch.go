// Package batch handles batch processing of registries
package batch

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/sdp-connect/cmd/common"
	"fjacquet/sdp-connect/cmd/root"
	"fjacquet/sdp-connect/internal/config"
	"fjacquet/sdp-connect/internal/container"
	"fjacquet/sdp-connect/internal/fileutils"
	"fjacquet/sdp-connect/internal/logging"

	"github.com/spf13/cobra"
)

// ErrBatchFailed is returned when at least one registry of the batch failed.
var ErrBatchFailed = errors.New("one or more registries failed")

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process registries from the registry directory",
	Long: `Batch process every registry found in the configured registry directory.

Registries are processed one after the other in name order. A registry that
fails does not stop the others.

Example:
  sdp-connect batch --config config.yaml`,
	Args: cobra.NoArgs,
	RunE: batchFunc,
}

func batchFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Batch command called")
	return ProcessDirectory(cmd.Context(), root.GetConfig(), root.Log, root.ContainerOptions...)
}

// ProcessDirectory loads every registry of cfg.Paths.Registry having the
// configured extension.
func ProcessDirectory(ctx context.Context, cfg *config.Config, logger logging.Logger, opts ...container.Option) error {
	if cfg.Paths.Registry == "" {
		return fmt.Errorf("paths.registry must be set for batch processing")
	}

	files, err := fileutils.ListFilesWithExtension(cfg.Paths.Registry, cfg.Registry.Extension)
	if err != nil {
		return fmt.Errorf("failed to list registries: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("No registries found in registry directory",
			logging.F(logging.FieldFile, cfg.Paths.Registry))
		return nil
	}

	logger.Info("Found registries for processing", logging.F(logging.FieldCount, len(files)))

	failed := 0
	for _, path := range files {
		run, err := common.ProcessRegistry(ctx, cfg, path, opts...)
		if err != nil {
			failed++
			logger.WithError(err).Error("Registry failed", logging.F(logging.FieldFile, path))
			continue
		}
		logger.Info(common.Summary(run), logging.F(logging.FieldFile, path))
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(files))
	}
	logger.Info(fmt.Sprintf("Batch processing completed. %d registries loaded.", len(files)))
	return nil
}
