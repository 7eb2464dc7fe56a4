package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ManuC12/Raices-de-vida/internal/admin"
	"github.com/ManuC12/Raices-de-vida/internal/auth"
	"github.com/ManuC12/Raices-de-vida/internal/cart"
	"github.com/ManuC12/Raices-de-vida/internal/checkout"
	"github.com/ManuC12/Raices-de-vida/internal/config"
	"github.com/ManuC12/Raices-de-vida/internal/health"
	h "github.com/ManuC12/Raices-de-vida/internal/http"
	"github.com/ManuC12/Raices-de-vida/internal/kv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	healthProbeInterval = 15 * time.Second
	visitorSweep        = time.Minute
	visitorIdle         = 3 * time.Minute
)

func newServeCmd(a *app) *cobra.Command {
	var port, grpcPort string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				a.cfg.HTTPPort = port
			}
			if grpcPort != "" {
				a.cfg.GRPCPort = grpcPort
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "override HTTP_PORT")
	cmd.Flags().StringVar(&grpcPort, "grpc-port", "", "override GRPC_PORT")
	return cmd
}

func newProvider(cfg config.AuthConfig) auth.Provider {
	if cfg.Provider == "gotrue" {
		return auth.NewGoTrueProvider(cfg.URL, cfg.APIKey, cfg.Timeout)
	}
	var opts []auth.LocalOption
	if cfg.ConfirmEmail {
		opts = append(opts, auth.WithEmailConfirmation())
	}
	return auth.NewLocalProvider(cfg.JWTSecret, cfg.TokenTTL, opts...)
}

func (a *app) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.log

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := kv.Open(ctx, cfg.Store.Options())
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	defer store.Close()
	log.Info("session store ready", zap.String("backend", cfg.Store.Backend))

	repo, err := a.openRepository()
	if err != nil {
		// the shop still sells the built-in products
		log.Warn("products table unavailable, serving built-in catalog", zap.Error(err))
	}
	if repo != nil {
		defer repo.Close()
	}
	cat := a.newCatalog(repo)

	orders, err := admin.DemoOrders()
	if err != nil {
		return err
	}
	board := admin.NewBoard(orders)

	var publisher checkout.Publisher = admin.NewRecorder(board)
	if len(cfg.Checkout.KafkaBrokers) > 0 {
		publisher = checkout.NewKafkaPublisher(cfg.Checkout.KafkaTopic, cfg.Checkout.KafkaBrokers...)
		feed := admin.NewFeed(board, log, cfg.Checkout.KafkaTopic, cfg.Checkout.KafkaGroup, cfg.Checkout.KafkaBrokers...)
		defer feed.Close()
		go feed.Run(ctx)
		log.Info("order events enabled", zap.Strings("brokers", cfg.Checkout.KafkaBrokers))
	}

	carts := cart.NewService(store, log)
	sim := checkout.NewSimulator(carts, log,
		checkout.WithDelay(cfg.Checkout.Delay),
		checkout.WithPublisher(publisher))
	defer sim.Close()

	sessions := auth.NewSessions(store, newProvider(cfg.Auth), log)

	limiter := h.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateLimitBurst)
	go limiter.Run(ctx, visitorSweep, visitorIdle)

	links := cfg.Contact.Links()
	router := h.NewRouter(h.Handlers{
		Products: h.NewProductHandler(cat, links, cfg.RequestTimeout),
		Cart:     h.NewCartHandler(carts, cat, cfg.RequestTimeout, cfg.MaxRequestBodySize),
		Checkout: h.NewCheckoutHandler(sim, links, cfg.MaxRequestBodySize),
		Auth:     h.NewAuthHandler(sessions, cfg.RequestTimeout, cfg.MaxRequestBodySize),
		Admin:    h.NewAdminHandler(cat, board, cfg.RequestTimeout, cfg.MaxRequestBodySize),
		Contact:  h.NewContactHandler(links),
		Health: h.Health(cfg.RequestTimeout, func() string { return cat.BreakerState().String() },
			map[string]h.Pinger{"catalog": cat}),
	}, h.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		AuthLimiter:    limiter,
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + cfg.Checkout.Delay,
		IdleTimeout:  60 * time.Second,
	}

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port: %w", err)
	}
	healthSrv := health.NewServer(log)
	go healthSrv.Watch(ctx, health.CatalogService, cat, healthProbeInterval)

	errCh := make(chan error, 2)
	go func() {
		log.Info("grpc health listening", zap.String("port", cfg.GRPCPort))
		if err := healthSrv.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server error: %w", err)
		}
	}()
	go func() {
		log.Info("storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")
	case runErr = <-errCh:
		log.Error("server failed, shutting down", zap.Error(runErr))
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	healthSrv.GracefulStop()

	log.Info("server exited")
	return runErr
}
