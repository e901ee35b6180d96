package main

import (
	"github.com/spf13/cobra"

	"github.com/smnshzh/MarketVisit/pkg/api"
)

func newAuthCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Register, log in and out, show the current user",
	}

	var reg api.RegisterRequest
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and keep its session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			return c.print(resp.User)
		},
	}
	registerCmd.Flags().StringVar(&reg.Username, "username", "", "username")
	registerCmd.Flags().StringVar(&reg.Password, "password", "", "password")
	registerCmd.Flags().StringVar(&reg.Email, "email", "", "email")
	registerCmd.Flags().StringVar(&reg.FullName, "full-name", "", "full name")

	var login api.LoginRequest
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.Login(cmd.Context(), login)
			if err != nil {
				return err
			}
			return c.print(resp.User)
		},
	}
	loginCmd.Flags().StringVar(&login.Username, "username", "", "username")
	loginCmd.Flags().StringVar(&login.Password, "password", "", "password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.Logout(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}

	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := c.runtime()
			if err != nil {
				return err
			}
			resp, err := rt.Client.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(resp.User)
		},
	}

	cmd.AddCommand(registerCmd, loginCmd, logoutCmd, meCmd)
	return cmd
}
