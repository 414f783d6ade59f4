package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// reset-keys: unpairs every device, since the public key they hold
// becomes useless. A fresh keypair is generated on the next run.
func resetKeysCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset-keys",
		Short: "Delete the device keypair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("re-run with --yes to confirm: this unpairs all devices")
			}
			if err := wire.Identity.Clear(); err != nil {
				return err
			}
			fmt.Println("Keypair deleted. A new one will be generated on next run.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm key deletion")
	return cmd
}
