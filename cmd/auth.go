package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicsync/internal/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Long: `Signs in against the remote store when online. While offline, the last
successful login is reused from the local cache if the email matches and the
session has not expired.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Email: ")
		email, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read email: %w", err)
		}
		fmt.Print("Password: ")
		password, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		user, err := a.auth.EmailLogin(cmd.Context(),
			strings.TrimSpace(email), strings.TrimSpace(password))
		if err != nil {
			if errors.Is(err, auth.ErrNoCachedCredentials) {
				return fmt.Errorf("offline and no cached login for this email")
			}
			return err
		}

		if user.Offline {
			fmt.Printf("Signed in as %s (offline, from cache)\n", user.Email)
		} else {
			fmt.Printf("Signed in as %s\n", user.Email)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the cached session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.auth.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		user := a.auth.GetCurrentUser()
		if user == nil {
			fmt.Println("Not signed in")
			return nil
		}
		suffix := ""
		if user.Offline {
			suffix = " (offline, from cache)"
		}
		fmt.Printf("%s <%s>%s\n", user.DisplayName, user.Email, suffix)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
