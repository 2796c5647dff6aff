package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Pulse/internal/adapters/auth"
	router "github.com/dkeye/Pulse/internal/adapters/http"
	"github.com/dkeye/Pulse/internal/adapters/push"
	"github.com/dkeye/Pulse/internal/adapters/rtc"
	wsignal "github.com/dkeye/Pulse/internal/adapters/signal"
	"github.com/dkeye/Pulse/internal/adapters/store"
	"github.com/dkeye/Pulse/internal/app"
	"github.com/dkeye/Pulse/internal/app/orch"
	"github.com/dkeye/Pulse/internal/config"
	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/metrics"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Console logger until the config says otherwise.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logFile := setupLogger(cfg.Log)
	defer logFile.Close()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	st, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	gateway, err := newPushGateway(ctx, cfg.Push)
	if err != nil {
		return err
	}

	ice, err := rtc.Configuration(cfg.Calls.ICEServers)
	if err != nil {
		return err
	}

	var policy app.Policy = app.SimplePolicy{}
	if cfg.Backpressure == "drop" {
		policy = app.TolerantPolicy{}
	}

	o := orch.New(orch.Options{
		Policy:      policy,
		Store:       st,
		Push:        gateway,
		Metrics:     m,
		PairingTTL:  cfg.Pairing.TokenTTL,
		CodeDigits:  cfg.Pairing.CodeDigits,
		StrictCalls: cfg.Calls.StrictState,
		RingTimeout: cfg.Calls.RingTimeout,
	})
	go o.Pairing.Run(ctx, cfg.Pairing.SweepInterval)
	go o.Calls.Tracker.Run(ctx, cfg.Calls.SweepInterval)

	authn := auth.New(cfg.Auth.JWTSecret, cfg.Auth.CookieName, cfg.Auth.TokenTTL, cfg.Auth.AllowQueryIdentity)
	ws := wsignal.NewSignalWSController(o, authn, wsignal.Options{
		ReadLimit:      cfg.ReadLimit,
		PingPeriod:     cfg.PingPeriod,
		SendBuffer:     cfg.SendBuffer,
		AllowedOrigins: cfg.AllowedOrigins,
		RateEvents:     cfg.Rate.Events,
		RateInterval:   cfg.Rate.Interval,
	})

	r := router.SetupRouter(ctx, cfg, router.Deps{
		Orch:     o,
		Auth:     authn,
		Signal:   ws,
		ICE:      ice,
		Gatherer: reg,
	})
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Pulse server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Int("sessions", o.Shutdown()).Msg("sessions closed")
	o.Delivery.Wait()
	return nil
}

func newPushGateway(ctx context.Context, cfg config.PushConfig) (core.PushGateway, error) {
	if !cfg.Enabled {
		log.Info().Str("module", "push").Msg("push disabled, logging notifications only")
		return push.LogGateway{}, nil
	}
	return push.NewFCMFromCredentials(ctx, push.Config{
		ProjectID:       cfg.ProjectID,
		CredentialsFile: cfg.CredentialsFile,
		Endpoint:        cfg.Endpoint,
		Concurrency:     cfg.Concurrency,
		Timeout:         cfg.Timeout,
	})
}
