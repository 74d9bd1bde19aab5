package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bridgetools/bba-go/internal/engineproc"
	"github.com/bridgetools/bba-go/internal/httpserver"
	"github.com/bridgetools/bba-go/internal/store"
	"github.com/bridgetools/bba-go/pkg/bba"
	"github.com/bridgetools/bba-go/pkg/bba/logging"
	"github.com/bridgetools/bba-go/pkg/runner"
)

func main() {
	envFile := flag.String("env", "", "Load this env file before reading the environment")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			fmt.Fprintf(os.Stderr, "load %s: %v\n", *envFile, err)
			os.Exit(1)
		}
	} else {
		_ = godotenv.Load()
	}

	zlog, err := newZap(*dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zlog.Sync() }()
	log := newZapLogger(zlog)

	if err := run(log); err != nil {
		log.Error(context.Background(), "server exited", "err", err)
		os.Exit(1)
	}
}

func newZap(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(log logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := httpserver.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.EnginePath == "" {
		return errors.New("BBA_ENGINE is required")
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	factory := func(ctx context.Context) (bba.Engine, error) {
		return engineproc.Start(ctx, engineproc.Config{Path: cfg.EnginePath, Log: log})
	}
	r, err := runner.New(factory, runner.Config{
		NSCard:   cfg.NSConventions,
		EWCard:   cfg.EWConventions,
		MaxCalls: cfg.MaxCalls,
		Log:      log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpserver.New(r, st, log, cfg.RequestTimeout).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.Addr,
			"version", bba.WrapperVersion(), "engine", bba.EngineVersion())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
