package main

import (
	"github.com/spf13/cobra"

	"github.com/smnshzh/MarketVisit/pkg/api"
)

func newGroupsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Group stores under a shared code",
	}

	var create api.CreateGroupRequest
	createCmd := &cobra.Command{
		Use:   "create <store-id>...",
		Short: "Create a group, or add stores to an existing code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			req := create
			req.StoreIDs = ids
			resp, err := rt.Client.CreateGroup(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}
	createCmd.Flags().StringVar(&create.GroupCode, "code", "", "group code (generated when empty)")
	createCmd.Flags().StringVar(&create.GroupName, "name", "", "group name")

	var q api.GroupsQuery
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show one group, the groups of a store, or every group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.Groups(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}
	listCmd.Flags().StringVar(&q.GroupCode, "code", "", "group code")
	listCmd.Flags().Int64Var(&q.StoreID, "store", 0, "store id")

	var storeID int64
	deleteCmd := &cobra.Command{
		Use:   "delete <code>",
		Short: "Delete a group, or remove one store from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.DeleteGroup(cmd.Context(), args[0], storeID)
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}
	deleteCmd.Flags().Int64Var(&storeID, "store", 0, "only remove this store")

	cmd.AddCommand(createCmd, listCmd, deleteCmd)
	return cmd
}
