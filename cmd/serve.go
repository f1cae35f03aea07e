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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/devraider/dataroom/internal/api"
	"github.com/devraider/dataroom/internal/api/middleware"
	"github.com/devraider/dataroom/internal/audit"
	"github.com/devraider/dataroom/internal/config"
	"github.com/devraider/dataroom/internal/core"
	"github.com/devraider/dataroom/internal/issuers"
	"github.com/devraider/dataroom/internal/logging"
	"github.com/devraider/dataroom/internal/metrics"
	"github.com/devraider/dataroom/internal/service"
	"github.com/devraider/dataroom/internal/session"
	"github.com/devraider/dataroom/internal/storage"
	"github.com/devraider/dataroom/internal/store"
	"github.com/devraider/dataroom/internal/tasks"
)

const revocationSweepTask = "revocation-sweep"

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Dataroom server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}

		log.Info().Msg("Connecting to database...")
		db, err := store.Open(cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() {
			_ = db.Close()
		}()

		log.Info().Msg("Running migrations...")
		if err := store.RunMigrations(cfg.Database.URL); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		log.Info().Msg("Initializing Google issuer...")
		issuer, err := issuers.NewGoogleIssuer(cmd.Context(), issuers.GoogleConfig{
			ClientID:  cfg.Auth.GoogleClientID,
			IssuerURL: cfg.Auth.GoogleIssuerURL,
			Timeout:   cfg.Auth.VerifyTimeout,
		})
		if err != nil {
			return fmt.Errorf("creating google issuer: %w", err)
		}

		codec, err := session.New(cfg.Auth.SigningSecret, cfg.Auth.Algorithm, cfg.Auth.TokenTTL())
		if err != nil {
			return fmt.Errorf("creating session codec: %w", err)
		}

		auditor, err := buildAuditor(cfg)
		if err != nil {
			return fmt.Errorf("creating auditor: %w", err)
		}
		defer func() {
			_ = auditor.Close()
		}()

		blobs, err := storage.NewLocalStore(cfg.Storage.BasePath)
		if err != nil {
			return fmt.Errorf("creating blob store: %w", err)
		}

		users := store.NewPostgresUserStore(db)
		revocations := store.NewPostgresRevocationStore(db)
		workspaces := store.NewPostgresWorkspaceStore(db)
		files := store.NewPostgresFileStore(db)

		authSvc := service.NewAuthService(issuer, users, revocations, codec, auditor)
		workspaceSvc := service.NewWorkspaceService(workspaces, users, auditor)
		fileSvc := service.NewFileService(files, workspaces, blobs)

		collector := metrics.NewCollector()

		loginLimiter := middleware.NewLoginLimiter(10, 5)
		defer loginLimiter.Stop()

		manager := tasks.NewManager()
		defer manager.Stop()
		manager.Register(revocationSweepTask, cfg.Auth.SweepInterval,
			func(ctx context.Context, logger logging.InternalLogger) error {
				pruned, err := authSvc.SweepRevocations(ctx)
				if err != nil {
					return err
				}
				collector.RecordSwept(pruned)
				logger.Info("pruned %d expired revocation entries", pruned)
				return nil
			})

		// run the sweep once before serving so a restart cannot resurrect
		// an expired blacklist backlog
		if err := manager.TriggerAndWait(revocationSweepTask); err != nil {
			log.Warn().Err(err).Msg("startup revocation sweep failed")
		}

		srv := api.NewServer(authSvc, workspaceSvc, fileSvc, manager, auditor, collector, loginLimiter)

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes(),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func buildAuditor(cfg *config.Config) (core.Auditor, error) {
	if !cfg.Audit.Enabled {
		return audit.NewNoopAuditor(), nil
	}
	switch cfg.Audit.Type {
	case "file":
		return audit.NewFileAuditor(cfg.Audit.Path)
	case "memory":
		return audit.NewInMemoryAuditor(), nil
	default:
		return nil, fmt.Errorf("unknown audit type %q", cfg.Audit.Type)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides the config file)")
}
