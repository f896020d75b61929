package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"almastore-be/internal/config"
	"almastore-be/internal/db"
	"almastore-be/internal/handler"
	"almastore-be/internal/logger"
	"almastore-be/internal/middleware"
	"almastore-be/internal/notification"
	"almastore-be/internal/order"
	"almastore-be/internal/push"
	"almastore-be/internal/reconcile"
	"almastore-be/internal/user"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

type routes struct {
	cron         *handler.CronHandler
	pushWebhook  *handler.PushWebhookHandler
	adminNotify  *handler.AdminNotificationHandler
	adminOrders  *handler.AdminOrderHandler
	health       http.HandlerFunc
	scheduler    func(http.Handler) http.Handler
	webhookGuard func(http.Handler) http.Handler
	adminGuard   func(http.Handler) http.Handler
}

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	return startServerFunc(":"+cfg.AppPort, newServer(cfg, database))
}

// newServer wires repositories, services and handlers for one database.
func newServer(cfg *config.Config, database *sql.DB) http.Handler {
	orderRepo := order.NewRepository(database)
	userRepo := user.NewRepository(database)
	notificationRepo := notification.NewRepository(database)
	tokenRepo := push.NewTokenRepository(database)

	notificationSvc := notification.NewService(notificationRepo, userRepo,
		notification.WithChunkSize(cfg.FanoutChunkSize),
	)
	notifier := notification.NewOrderNotifier(notificationSvc)

	orderSvc := order.NewService(orderRepo, notifier)
	worker := reconcile.NewWorker(orderRepo, notifier, reconcile.WithWindow(cfg.AutoCompleteWindow))

	dispatcher := push.NewDispatcher(tokenRepo,
		push.NewExpoGateway(cfg.PushGatewayURL, cfg.PushAccessToken),
		push.WithBatchSize(cfg.PushBatchSize),
		push.WithConcurrency(cfg.PushConcurrency),
	)

	return setupRouter(routes{
		cron:         handler.NewCronHandler(worker),
		pushWebhook:  handler.NewPushWebhookHandler(dispatcher),
		adminNotify:  handler.NewAdminNotificationHandler(notificationSvc),
		adminOrders:  handler.NewAdminOrderHandler(orderSvc),
		health:       handler.Health(database),
		scheduler:    middleware.SchedulerAuth(cfg.CronSecret, cfg.ServiceRoleKey),
		webhookGuard: middleware.WebhookAuth(cfg.PushWebhookSecret),
		adminGuard:   middleware.AdminAuth(cfg.JWTSecret),
	})
}

func setupRouter(rt routes) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", middleware.Instrument("health", rt.health))
	mux.Handle("GET /metrics", promhttp.Handler())

	cron := rt.scheduler(http.HandlerFunc(rt.cron.AutoCompleteOrders))
	mux.Handle("POST /cron/auto-complete-orders",
		middleware.Instrument("auto_complete_orders", middleware.CORS(cron)))
	mux.Handle("OPTIONS /cron/auto-complete-orders", middleware.CORS(cron))

	mux.Handle("POST /webhooks/push",
		middleware.Instrument("push_webhook", rt.webhookGuard(http.HandlerFunc(rt.pushWebhook.Handle))))

	mux.Handle("POST /admin/notifications",
		middleware.Instrument("admin_notifications", rt.adminGuard(http.HandlerFunc(rt.adminNotify.Send))))
	mux.Handle("POST /admin/orders/{id}/status",
		middleware.Instrument("admin_order_status", rt.adminGuard(http.HandlerFunc(rt.adminOrders.UpdateStatus))))

	var h http.Handler = mux
	h = middleware.RateLimitMiddleware(h)
	h = logger.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	return h
}

func startServer(addr string, h http.Handler) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	logger.L().Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
