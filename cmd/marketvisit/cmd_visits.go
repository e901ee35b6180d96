package main

import (
	"github.com/spf13/cobra"

	"github.com/smnshzh/MarketVisit/pkg/api"
)

func newVisitsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visits",
		Short: "Market visit assignments and reports",
	}

	var assigned api.AssignmentsQuery
	assignedCmd := &cobra.Command{
		Use:   "assigned",
		Short: "List assigned stores (dates accept YYYY/MM/DD Jalali)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.AssignedStores(cmd.Context(), assigned)
			if err != nil {
				return err
			}
			return c.print(resp.AssignedStores)
		},
	}
	assignedCmd.Flags().Int64Var(&assigned.UserID, "user", 0, "user id (current user when 0)")
	assignedCmd.Flags().StringVar(&assigned.AssignedDate, "date", "", "assigned date")
	assignedCmd.Flags().StringVar(&assigned.Status, "status", "", "assignment status")

	var (
		submit   api.SubmitVisitRequest
		withHere bool
	)
	submitCmd := &cobra.Command{
		Use:   "submit <assignment-id>",
		Short: "Report a visit (date defaults to today)",
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
			req := submit
			req.AssignmentID = id
			if withHere {
				if p, err := rt.Location.Current(cmd.Context()); err == nil {
					req.Latitude, req.Longitude = &p.Lat, &p.Lng
				}
			}
			resp, err := rt.Client.SubmitVisit(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.print(resp.VisitData)
		},
	}
	submitCmd.Flags().StringVar(&submit.VisitDate, "date", "", "visit date (Jalali or Gregorian)")
	submitCmd.Flags().StringVar(&submit.VisitTime, "time", "", "visit time HH:MM")
	submitCmd.Flags().StringSliceVar(&submit.ImageURLs, "image", nil, "uploaded image url (repeatable)")
	submitCmd.Flags().BoolVar(&withHere, "here", false, "attach the current position")

	var visits api.VisitsQuery
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List submitted visits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.Visits(cmd.Context(), visits)
			if err != nil {
				return err
			}
			return c.print(resp.VisitData)
		},
	}
	listCmd.Flags().Int64Var(&visits.AssignmentID, "assignment", 0, "assignment id")
	listCmd.Flags().Int64Var(&visits.StoreID, "store", 0, "store id")
	listCmd.Flags().Int64Var(&visits.UserID, "user", 0, "user id")

	cmd.AddCommand(assignedCmd, submitCmd, listCmd)
	return cmd
}
