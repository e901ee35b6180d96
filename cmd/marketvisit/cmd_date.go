package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smnshzh/MarketVisit/pkg/jalali"
)

func newDateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "date",
		Short: "Convert between the Gregorian and Jalali calendars",
	}

	var withTime bool
	toJalaliCmd := &cobra.Command{
		Use:   "to-jalali <date>",
		Short: "Gregorian date (or date-time) to Jalali",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if withTime {
				_, err := fmt.Fprintln(c.out, jalali.ToLocalDateTime(args[0]))
				return err
			}
			_, err := fmt.Fprintln(c.out, jalali.ToLocalDate(args[0]))
			return err
		},
	}
	toJalaliCmd.Flags().BoolVar(&withTime, "time", false, "keep the time of day")

	toGregorianCmd := &cobra.Command{
		Use:   "to-gregorian <YYYY/MM/DD>",
		Short: "Jalali date to Gregorian YYYY-MM-DD",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(c.out, jalali.ToGregorianFromLocal(args[0]))
			return err
		},
	}

	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Today's Jalali date",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(c.out, jalali.Today())
			return err
		},
	}

	cmd.AddCommand(toJalaliCmd, toGregorianCmd, todayCmd)
	return cmd
}
