package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/smnshzh/MarketVisit/pkg/api"
)

func newCommentsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Rate stores and read their comments",
	}

	var (
		text   string
		rating int
		images []string
	)
	addCmd := &cobra.Command{
		Use:   "add <store-id>",
		Short: "Post a comment with a 1-5 rating",
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
			req := api.CreateCommentRequest{StoreID: id, Comment: text, ImageURLs: images}
			if cmd.Flags().Changed("rating") {
				req.Rating = &rating
			}
			if p, err := rt.Location.Current(cmd.Context()); err == nil {
				req.UserLat, req.UserLng = &p.Lat, &p.Lng
			}
			resp, err := rt.Client.CreateComment(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.print(resp.Comment)
		},
	}
	addCmd.Flags().StringVar(&text, "text", "", "comment text")
	addCmd.Flags().IntVar(&rating, "rating", 0, "rating from 1 to 5")
	addCmd.Flags().StringSliceVar(&images, "image", nil, "uploaded image url (repeatable)")

	listCmd := &cobra.Command{
		Use:   "list <store-id>",
		Short: "List the comments of a store",
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
			resp, err := rt.Client.Comments(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.print(resp.Comments)
		},
	}

	uploadCmd := &cobra.Command{
		Use:   "upload <image-file>",
		Short: "Upload a comment image and print its url",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer f.Close()

			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.UploadCommentImage(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}

	cmd.AddCommand(addCmd, listCmd, uploadCmd)
	return cmd
}
