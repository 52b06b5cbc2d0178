// Package check provides the command validating a registry without submitting it
package check

import (
	"fjacquet/sdp-connect/cmd/common"
	"fjacquet/sdp-connect/cmd/root"
	"fjacquet/sdp-connect/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the check command
var Cmd = &cobra.Command{
	Use:   "check <registry>",
	Short: "Validate a registry without submitting it",
	Long: `Read a registry, check the field layout of every line and compare the
control line with the totals of the payload lines. Nothing is sent to the
payment service.

Example:
  sdp-connect check reestr_0042.txt`,
	Args: cobra.ExactArgs(1),
	RunE: checkFunc,
}

func checkFunc(cmd *cobra.Command, args []string) error {
	cfg := root.GetConfig()
	path := common.ResolveRegistry(cfg, args[0])

	reg, err := common.CheckRegistry(cfg, path, root.Log)
	if err != nil {
		return err
	}

	root.Log.Info("Registry is valid",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(reg.Rows)))
	return nil
}
