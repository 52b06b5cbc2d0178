// Package load provides the command submitting a single registry
package load

import (
	"fjacquet/sdp-connect/cmd/common"
	"fjacquet/sdp-connect/cmd/root"
	"fjacquet/sdp-connect/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the load command
var Cmd = &cobra.Command{
	Use:   "load <registry>",
	Short: "Submit a registry to the payment service",
	Long: `Validate a registry and submit every row to the payment service.

A registry failing validation is not submitted at all. Rows rejected by the
service are written to an error registry in the configured error directory.
The command fails when any row was rejected.

Example:
  sdp-connect load reestr_0042.txt`,
	Args: cobra.ExactArgs(1),
	RunE: loadFunc,
}

func loadFunc(cmd *cobra.Command, args []string) error {
	cfg := root.GetConfig()
	path := common.ResolveRegistry(cfg, args[0])

	run, err := common.ProcessRegistry(cmd.Context(), cfg, path, root.ContainerOptions...)
	root.Log.Info(common.Summary(run), logging.F(logging.FieldFile, path))
	return err
}
