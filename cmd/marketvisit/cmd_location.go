package main

import (
	"github.com/spf13/cobra"
)

func newLocationCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Report the user position and resolve place names",
	}

	var lat, lng float64
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Send the current position to the backend and remember it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			p, err := c.point(cmd.Context(), rt, lat, lng)
			if err != nil {
				return err
			}
			resp, err := rt.Client.UpdateLocation(cmd.Context(), p)
			if err != nil {
				return err
			}
			if err := rt.Store.SaveLocation(p); err != nil {
				c.log.WarnObj("save last location failed", "error", err)
			}
			return c.print(resp)
		},
	}
	addPointFlags(updateCmd, &lat, &lng)

	var hoodLat, hoodLng float64
	hoodCmd := &cobra.Command{
		Use:   "neighborhood",
		Short: "Resolve the neighborhood at a point via the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			p, err := c.point(cmd.Context(), rt, hoodLat, hoodLng)
			if err != nil {
				return err
			}
			resp, err := rt.Client.Neighborhood(cmd.Context(), p)
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}
	addPointFlags(hoodCmd, &hoodLat, &hoodLng)

	var addrLat, addrLng float64
	addressCmd := &cobra.Command{
		Use:   "address",
		Short: "Resolve the street address at a point via the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			p, err := c.point(cmd.Context(), rt, addrLat, addrLng)
			if err != nil {
				return err
			}
			resp, err := rt.Client.Address(cmd.Context(), p)
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}
	addPointFlags(addressCmd, &addrLat, &addrLng)

	var geoLat, geoLng float64
	geocodeCmd := &cobra.Command{
		Use:   "geocode",
		Short: "Resolve city and neighborhood names with the reverse geocoder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			p, err := c.point(cmd.Context(), rt, geoLat, geoLng)
			if err != nil {
				return err
			}
			return c.print(map[string]any{
				"location":     p,
				"city":         rt.Geocoder.City(cmd.Context(), p),
				"neighborhood": rt.Geocoder.Neighborhood(cmd.Context(), p),
			})
		},
	}
	addPointFlags(geocodeCmd, &geoLat, &geoLng)

	cmd.AddCommand(updateCmd, hoodCmd, addressCmd, geocodeCmd)
	return cmd
}
