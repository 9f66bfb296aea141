package pulsecare

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/api"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/auth"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.HTTP.Addr = serveAddr
		}
		if err := cfg.ValidateServe(); err != nil {
			return err
		}

		log, err := logger.New(cfg.Env)
		if err != nil {
			return err
		}
		defer logger.Sync(log)

		sqldb, err := openDB(cmd.Context(), cfg.Database.Path)
		if err != nil {
			log.Error("open database", zap.String("path", cfg.Database.Path), zap.Error(err))
			return err
		}
		defer sqldb.Close()

		if cfg.Catalog.SeedFile != "" {
			res, err := seedFromFile(cmd.Context(), sqldb, cfg.Catalog.SeedFile)
			if err != nil {
				log.Warn("catalog seed failed", zap.String("file", cfg.Catalog.SeedFile), zap.Error(err))
			} else {
				log.Info("catalog seeded",
					zap.Int("foods", res.Foods),
					zap.Int("activities", res.Activities),
					zap.Int("exercises", res.Exercises),
					zap.Int("wellness_videos", res.WellnessVideos),
				)
			}
		}

		tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration, clock)
		if err != nil {
			return err
		}
		server := api.NewServer(sqldb, tokens, clock, log, api.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RequestTimeout: cfg.HTTP.RequestTimeout.Duration,
		})

		srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: server.Handler(), ReadHeaderTimeout: 5 * time.Second}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info("api listening",
				zap.String("addr", cfg.HTTP.Addr),
				zap.String("db", cfg.Database.Path),
				zap.Bool("production", cfg.Production()),
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
