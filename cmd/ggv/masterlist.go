package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
)

func newMasterListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "master-list",
		Aliases: []string{"ml"},
		Short:   "Manage the organization master list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the master list in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.service == nil {
				return errNotOpened
			}
			list, err := a.service.MasterList(cmd.Context())
			if err != nil {
				return err
			}
			for i, name := range list {
				cmd.Printf("%3d  %s\n", i+1, name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add [name...]",
		Short: "Append organizations to the master list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.service == nil {
				return errNotOpened
			}
			req := dto.MasterListRequest{Organizations: args}
			if err := req.Validate(); err != nil {
				return err
			}
			_, added, err := a.service.AddOrganizations(cmd.Context(), args)
			if err != nil {
				return err
			}
			if len(added) == 0 {
				cmd.Println("Already on the master list")
				return nil
			}
			for _, name := range added {
				cmd.Printf("Added %s\n", name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove [name]",
		Short: "Remove an organization from the master list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.service == nil {
				return errNotOpened
			}
			_, removed, err := a.service.RemoveOrganization(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("%w: %s", dto.ErrNotFound, args[0])
			}
			cmd.Printf("Removed %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default master list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.service == nil {
				return errNotOpened
			}
			list, err := a.service.ResetMasterList(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Restored %d organizations\n", len(list))
			return nil
		},
	})

	return cmd
}
