package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"food-order-system/internal/auth"
	"food-order-system/internal/config"
	"food-order-system/internal/logger"
	"food-order-system/internal/messaging"
	"food-order-system/internal/services/cart"
	"food-order-system/internal/services/menu"
	"food-order-system/internal/services/order"
	"food-order-system/internal/services/payment"
	"food-order-system/internal/services/user"
	"food-order-system/internal/storage"
	"food-order-system/internal/storage/memory"
	"food-order-system/internal/storage/postgres"
	"food-order-system/internal/web"
)

func main() {
	port := flag.Int("port", 0, "HTTP port (overrides HTTP_PORT)")
	flag.Parse()

	log := logger.New("food-order-system")

	cfg, err := config.Load()
	if err != nil {
		log.Error("config_load_failed", "startup", "Failed to load config", err, nil)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	if err := run(cfg, log); err != nil {
		log.Error("service_failed", "startup", "Service terminated", err, nil)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := newStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	log.Info("storage_ready", "startup", "Entity store initialized", map[string]any{
		"backend": cfg.Storage.Backend,
	})

	var publisher order.EventPublisher
	if cfg.AMQP.Enabled {
		conn, err := messaging.New(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		pub := messaging.NewPublisher(conn, log)
		defer pub.Close()
		publisher = pub
	}

	manager := auth.NewManager(cfg.Auth.Secret)
	authenticate := mux.MiddlewareFunc(web.Authenticate(manager))

	router := mux.NewRouter()
	router.Use(web.Logging(log))

	user.NewHandler(user.NewService(store, manager), log).Register(router)
	menu.NewHandler(menu.NewService(store), log).Register(router, authenticate)
	cart.NewHandler(cart.NewService(store), log).Register(router, authenticate)
	order.NewHandler(order.NewService(store, publisher, log, cfg.Orders), log).Register(router, authenticate)
	payment.NewHandler(payment.NewFakeProvider(), log).Register(router, authenticate)

	router.HandleFunc("/health", healthHandler(store)).Methods(http.MethodGet)
	router.Handle("/metrics", web.MetricsHandler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_started", "startup", "HTTP server listening", map[string]any{
			"port": cfg.HTTP.Port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutdown_started", "shutdown", "Received signal, shutting down", map[string]any{
			"signal": sig.String(),
		})
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down gracefully: %w", err)
	}

	log.Info("shutdown_complete", "shutdown", "Server stopped", nil)
	return nil
}

func newStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		return postgres.New(ctx, cfg, log)
	default:
		return memory.New(), nil
	}
}

func healthHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			web.WriteErrorMessage(w, r, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
