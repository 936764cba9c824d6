package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/veresiye/internal/auth"
	"github.com/mmynk/veresiye/internal/backup"
	"github.com/mmynk/veresiye/internal/ledger"
	"github.com/mmynk/veresiye/internal/metrics"
	"github.com/mmynk/veresiye/internal/middleware"
	"github.com/mmynk/veresiye/internal/models"
	"github.com/mmynk/veresiye/internal/service"
	"github.com/mmynk/veresiye/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and the automatic backup loop",
	Long: `Serve the Connect API over HTTP/1.1 and h2c, expose /healthz and /metrics,
and check every backup.tick_interval whether an automatic backup is due.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	engine := ledger.NewEngine(store, ledger.WithMetrics(m))
	scheduler := backup.NewScheduler(store, cfg.BackupDir,
		backup.WithMetrics(m),
		backup.WithRetention(cfg.Backup.RetentionDays),
	)
	authenticator := auth.NewPINAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.HTTP.CORSOrigins))
	r.Get("/healthz", healthHandler(store))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	service.Register(r, service.Services{
		Ledger: service.NewLedgerService(store, engine),
		Backup: service.NewBackupService(scheduler),
		Auth:   service.NewAuthService(authenticator, jwtManager),
	}, connect.WithInterceptors(
		middleware.RequireAuth(authenticator, jwtManager, service.PublicProcedures...),
		middleware.LoggingInterceptor(),
	))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go runBackupLoop(ctx, scheduler, cfg.Backup.TickInterval)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", "http://"+server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// runBackupLoop checks once at startup and then on every tick until ctx ends.
func runBackupLoop(ctx context.Context, scheduler *backup.Scheduler, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res, err := scheduler.Tick(ctx)
		switch {
		case err != nil:
			slog.Error("Automatic backup failed, will retry", "error", err)
		case res.Skipped:
			slog.Debug("Automatic backup skipped")
		case res.Path != "":
			slog.Info("Automatic backup completed", "path", res.Path)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func healthHandler(store storage.SettingStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := store.GetSetting(r.Context(), models.KeyAutoBackupFrequency); err != nil {
			slog.Error("Health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	}
}
