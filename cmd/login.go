package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/placeprep/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as a learner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		admin, _ := cmd.Flags().GetBool("admin")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		s, err := session.Login(cmd.Context(), d.store.LearnerRepo(), name, admin)
		if err != nil {
			return err
		}
		if err := d.sessions.Save(s); err != nil {
			return err
		}
		d.logger.Info("signed in", "learner", s.LearnerID, "role", s.Role)
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s).\n", s.Name, s.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := session.DefaultPath()
		if err != nil {
			return err
		}
		if err := session.NewFileStore(path).Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in learner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := session.DefaultPath()
		if err != nil {
			return err
		}
		s, err := session.NewFileStore(path).Load()
		if errors.Is(err, session.ErrNoSession) {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) since %s\n",
			s.Name, s.Role, s.IssuedAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

func init() {
	loginCmd.Flags().String("name", "", "Learner name")
	loginCmd.Flags().Bool("admin", false, "Sign in with review permissions")
	_ = loginCmd.MarkFlagRequired("name")
}
