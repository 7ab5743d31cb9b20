package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicsync/internal/db"
	"github.com/clinicdesk/clinicsync/internal/sync"
)

var (
	syncPush   bool
	syncDoctor string
)

var syncCmd = &cobra.Command{
	Use:   "sync [appointments|articles]",
	Short: "Run one sync cycle",
	Long: `Pulls remote records into the local database, or pushes local changes
with --push. Without an entity argument both are synced.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		doctorID := a.doctorID(syncDoctor)
		if doctorID == "" {
			return fmt.Errorf("no doctor id: pass --doctor or set one with 'clinicsync doctor <id>'")
		}
		if syncDoctor != "" {
			// Remember the acting doctor for auto-sync and later runs.
			if err := a.store.SetSetting(db.SettingDoctorID, syncDoctor); err != nil {
				logger.Warn("save doctor id", "err", err)
			}
		}

		a.monitor.CheckNow(cmd.Context())

		entity := ""
		if len(args) == 1 {
			entity = args[0]
		}

		switch entity {
		case "appointments":
			return syncAppointments(cmd, a, doctorID)
		case "articles":
			return syncArticles(cmd, a, doctorID)
		case "":
			if err := syncAppointments(cmd, a, doctorID); err != nil {
				return err
			}
			return syncArticles(cmd, a, doctorID)
		default:
			return fmt.Errorf("unknown entity %q (want appointments or articles)", entity)
		}
	},
}

func syncAppointments(cmd *cobra.Command, a *app, doctorID string) error {
	if syncPush {
		res, err := a.appointments.Push(cmd.Context(), doctorID)
		if err != nil {
			return err
		}
		printPush("appointments", res)
		return nil
	}
	res, err := a.appointments.Pull(cmd.Context(), doctorID)
	if err != nil {
		return err
	}
	fmt.Printf("appointments: pulled %d record(s)\n", res.Synced)
	return nil
}

func syncArticles(cmd *cobra.Command, a *app, doctorID string) error {
	if syncPush {
		res, err := a.articles.Push(cmd.Context(), doctorID)
		if err != nil {
			return err
		}
		printPush("articles", res)
		return nil
	}
	res, err := a.articles.Pull(cmd.Context(), doctorID)
	if err != nil {
		return err
	}
	fmt.Printf("articles: pulled %d record(s)\n", res.Synced)
	return nil
}

func printPush(entity string, res *sync.PushResult) {
	fmt.Printf("%s: pushed %d/%d (created %d, updated %d)\n",
		entity, res.Succeeded, res.Attempted, res.Created, res.Updated)
	for _, re := range res.Errors {
		fmt.Printf("  failed %s: %s\n", re.ID, re.Error)
	}
}

var doctorCmd = &cobra.Command{
	Use:   "doctor <id>",
	Short: "Set the acting doctor id used by sync",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.SetSetting(db.SettingDoctorID, args[0]); err != nil {
			return err
		}
		fmt.Printf("Doctor id set to %s\n", args[0])
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncPush, "push", false, "push local changes instead of pulling")
	syncCmd.Flags().StringVar(&syncDoctor, "doctor", "", "doctor id owning the records")
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(doctorCmd)
}
