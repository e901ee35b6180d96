package main

import (
	"github.com/spf13/cobra"

	"github.com/smnshzh/MarketVisit/pkg/api"
)

func newDeactivationCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivation",
		Short: "Request and review store deactivation",
	}

	var reason string
	requestCmd := &cobra.Command{
		Use:   "request <store-id>",
		Short: "Ask reviewers to deactivate a store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.RequestDeactivation(cmd.Context(), id, reason)
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}
	requestCmd.Flags().StringVar(&reason, "reason", "", "why the store should be deactivated")

	var notes string
	reviewCmd := &cobra.Command{
		Use:   "review <request-id> <approve|reject>",
		Short: "Approve or reject a pending request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.ReviewDeactivation(cmd.Context(), api.ReviewRequest{
				RequestID: id,
				Action:    args[1],
				Notes:     notes,
			})
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}
	reviewCmd.Flags().StringVar(&notes, "notes", "", "review notes")

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List deactivation requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.DeactivationRequests(cmd.Context(), status)
			if err != nil {
				return err
			}
			return c.print(resp.Requests)
		},
	}
	listCmd.Flags().StringVar(&status, "status", "pending", "request status")

	cmd.AddCommand(requestCmd, reviewCmd, listCmd)
	return cmd
}
