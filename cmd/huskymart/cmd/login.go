package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huskymart/huskymart/internal/session"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in with your school account",
		Long: "Sign in through the device-code flow: the command prints a code\n" +
			"and a URL, you finish sign-in in a browser, and the verified\n" +
			"profile is saved as the local session.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			id, err := a.provider.Authenticate(cmd.Context())
			if err != nil {
				return fmt.Errorf("signing in: %w", err)
			}

			if err := a.sessions.Save(session.FromIdentity(id)); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}

			fmt.Printf("Signed in as %s <%s>\n", id.DisplayName, id.Email)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and erase the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if err := a.provider.SignOut(cmd.Context()); err != nil {
				return fmt.Errorf("invalidating token: %w", err)
			}
			if err := a.sessions.Clear(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}

			fmt.Println("Signed out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			s, err := a.currentSession()
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(s)
			}
			fmt.Printf("%s <%s>\n", s.DisplayName, s.Email)
			return nil
		},
	}
}
