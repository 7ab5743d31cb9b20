package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicsync/internal/db"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity and sync state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		online := a.monitor.CheckNow(cmd.Context())
		if online {
			fmt.Println("Network:       online")
		} else {
			fmt.Println("Network:       offline")
		}

		if a.remote == nil {
			fmt.Println("Remote store:  not configured")
		} else {
			fmt.Println("Remote store:  configured")
		}

		doctorID, _ := a.store.GetSetting(db.SettingDoctorID)
		if doctorID == "" {
			doctorID = "(not set)"
		}
		fmt.Printf("Doctor id:     %s\n", doctorID)

		appts, err := a.store.ListAppointments()
		if err != nil {
			return err
		}
		dirty, err := a.store.ListUnsyncedAppointments()
		if err != nil {
			return err
		}
		articles, err := a.store.ListArticles()
		if err != nil {
			return err
		}

		apptsAt := lastSync(a, db.SettingAppointmentsSyncedAt)
		articlesAt := lastSync(a, db.SettingArticlesSyncedAt)
		fmt.Printf("Appointments:  %d local, %d pending push, last pull %s\n", len(appts), len(dirty), apptsAt)
		fmt.Printf("Articles:      %d local, last pull %s\n", len(articles), articlesAt)

		user := a.auth.GetCurrentUser()
		if user == nil {
			fmt.Println("Signed in:     no")
		} else {
			fmt.Printf("Signed in:     %s\n", user.Email)
		}
		return nil
	},
}

func lastSync(a *app, key string) string {
	v, _ := a.store.GetSetting(key)
	if v == "" {
		return "never"
	}
	return v
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
