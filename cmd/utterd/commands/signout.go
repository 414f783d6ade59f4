package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func signOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign-out",
		Short: "Delete stored OAuth credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Auth.SignOut(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}
