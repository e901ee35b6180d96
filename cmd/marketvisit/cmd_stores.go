package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smnshzh/MarketVisit/pkg/api"
)

func newStoresCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Find, register and update stores",
	}

	var nearby api.NearbyQuery
	nearbyCmd := &cobra.Command{
		Use:   "nearby",
		Short: "List stores around a point, nearest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			p, err := c.point(cmd.Context(), rt, nearby.Lat, nearby.Lng)
			if err != nil {
				return err
			}
			q := nearby
			q.Lat, q.Lng = p.Lat, p.Lng
			resp, err := rt.Client.NearbyStores(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.print(resp.Stores)
		},
	}
	addPointFlags(nearbyCmd, &nearby.Lat, &nearby.Lng)
	nearbyCmd.Flags().IntVar(&nearby.MaxDistance, "max-distance", 1000, "radius in meters")
	nearbyCmd.Flags().StringVar(&nearby.Category, "category", "", "category filter")
	nearbyCmd.Flags().StringVar(&nearby.City, "city", "", "city filter")
	nearbyCmd.Flags().StringVar(&nearby.Neighborhood, "neighborhood", "", "neighborhood filter")

	var (
		hood     api.NeighborhoodQuery
		hoodLat  float64
		hoodLng  float64
		sortNear bool
	)
	hoodCmd := &cobra.Command{
		Use:   "neighborhood <name>",
		Short: "List the stores of a neighborhood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			q := hood
			q.Neighborhood = args[0]
			if sortNear {
				p, err := c.point(cmd.Context(), rt, hoodLat, hoodLng)
				if err != nil {
					return err
				}
				q.Lat, q.Lng = &p.Lat, &p.Lng
			}
			resp, err := rt.Client.StoresByNeighborhood(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}
	addPointFlags(hoodCmd, &hoodLat, &hoodLng)
	hoodCmd.Flags().BoolVar(&sortNear, "near", false, "sort by distance from the current position")
	hoodCmd.Flags().StringVar(&hood.City, "city", "", "city filter")
	hoodCmd.Flags().IntVar(&hood.Limit, "limit", 50, "maximum stores returned")

	var (
		reg            api.RegisterStoreRequest
		regLat, regLng float64
	)
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new store at a point",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			p, err := c.point(cmd.Context(), rt, regLat, regLng)
			if err != nil {
				return err
			}
			req := reg
			req.Lat, req.Lng = &p.Lat, &p.Lng
			if req.City == "" {
				req.City = rt.Geocoder.City(cmd.Context(), p)
			}
			resp, err := rt.Client.RegisterStore(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.print(resp.Store)
		},
	}
	addPointFlags(registerCmd, &regLat, &regLng)
	registerCmd.Flags().StringVar(&reg.Name, "name", "", "store name")
	registerCmd.Flags().StringVar(&reg.Address, "address", "", "street address")
	registerCmd.Flags().StringVar(&reg.Category, "category", "", "category title")
	registerCmd.Flags().StringVar(&reg.CategorySlug, "category-slug", "", "category slug")
	registerCmd.Flags().StringVar(&reg.Phone, "phone", "", "phone number")
	registerCmd.Flags().StringVar(&reg.City, "city", "", "city (resolved from the point when empty)")
	registerCmd.Flags().StringVar(&reg.Province, "province", "", "province")
	registerCmd.Flags().StringVar(&reg.PlateNumber, "plate", "", "plate number")
	registerCmd.Flags().StringVar(&reg.PostalCode, "postal-code", "", "postal code")
	registerCmd.Flags().StringSliceVar(&reg.ImageURLs, "image", nil, "uploaded image url (repeatable)")

	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "List store categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.Categories(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(resp.Results)
		},
	}

	workshopCmd := &cobra.Command{
		Use:   "workshop <store-id> <true|false>",
		Short: "Set whether a store has a workshop",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			has, err := strconv.ParseBool(args[1])
			if err != nil {
				return err
			}
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.UpdateWorkshop(cmd.Context(), id, has)
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}

	cmd.AddCommand(nearbyCmd, hoodCmd, registerCmd, categoriesCmd, workshopCmd)
	return cmd
}
