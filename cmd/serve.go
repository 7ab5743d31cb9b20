package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicsync/internal/bridge"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the command bridge server",
	Long: `Starts the network monitor, auto-sync timers, and the HTTP command
bridge the desktop UI connects to. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a.monitor.Start(ctx)
		if cfg.Sync.AutoStart {
			a.appointments.EnableAutoSync(true)
			a.articles.EnableAutoSync(true)
		}

		server := bridge.New(a.store, a.auth, a.monitor, a.appointments, a.articles, logger)
		httpSrv := &http.Server{
			Addr:    cfg.Bridge.Addr,
			Handler: server.Router(),
		}

		errCh := make(chan error, 1)
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		logger.Info("bridge listening", "addr", cfg.Bridge.Addr)

		select {
		case err := <-errCh:
			return fmt.Errorf("bridge server: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
