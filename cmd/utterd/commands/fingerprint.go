package commands

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeffjose/utter/internal/crypto"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the device public key and its fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := wire.Identity.LoadOrCreate()
			if err != nil {
				return err
			}
			fmt.Printf("Public key:  %s\n", base64.StdEncoding.EncodeToString(keys.Pub.Slice()))
			fmt.Printf("Fingerprint: %s\n", crypto.Fingerprint(keys.Pub))
			return nil
		},
	}
}
