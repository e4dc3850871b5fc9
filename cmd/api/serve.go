package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func runServe(parent context.Context) error {
	ctx, stop, cfg, logger, err := bootstrap(parent)
	if err != nil {
		return err
	}
	defer stop()
	defer logger.Sync()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	// Email delivery
	var rabbit *queue.RabbitMQ
	var sender usecase.EmailSender
	switch cfg.Mail.Delivery {
	case config.DeliveryQueue:
		rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		sender = queue.NewEmailProducer(rabbit.Ch)
	case config.DeliverySMTP:
		sender = mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.From, logger)
	default:
		sender = mail.NoopSender{Logger: logger}
	}
	if len(cfg.Mail.ProjectRecipients) == 0 {
		logger.Warn("mail.project_recipients is empty; project emails will be reported as failed")
	}

	renderer, err := mail.NewProjectStatusRenderer()
	if err != nil {
		return err
	}

	// Usecases
	activity := usecase.NewActivityLogger(st.Logs, logger)
	notifier := usecase.NewNotificationEmitter(st.Notifications, logger)
	notes := usecase.NewAuditNoteRecorder(st.Leads)

	createUC := usecase.NewCreateLeadUseCase(st.Leads, notifier, activity, logger)
	transitionUC := usecase.NewTransitionStageUseCase(
		st.Leads, notes, notifier, sender, renderer, activity, cfg.Mail.ProjectRecipients, logger,
	)
	updateUC := usecase.NewUpdateLeadUseCase(st.Leads, notes, notifier, activity, logger)
	addNoteUC := usecase.NewAddNoteUseCase(st.Leads, activity, logger)
	deleteUC := usecase.NewDeleteLeadUseCase(st.Leads, activity, logger)

	// Handlers
	limiter := handlers.NewRateLimiter(cfg.RateLimit.LeadsPerMinute)
	defer limiter.Stop()

	var rabbitState handlers.ConnectionState
	if rabbit != nil {
		rabbitState = rabbit
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Leads:         handlers.NewLeadHandler(createUC, transitionUC, updateUC, addNoteUC, deleteUC, st.Leads, limiter, logger),
		Notifications: handlers.NewNotificationHandler(notifier, activity, logger),
		Logs:          handlers.NewLogHandler(activity, logger),
		Health:        handlers.NewHealthHandler(cfg.Store.Driver, st.Ping, rabbitState, cfg.Mail.Delivery),
		CORSOrigins:   cfg.Server.CORSOrigins,
		AccessLog:     true,

		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
	})

	// Workers
	stats := worker.NewPipelineStatsWorker(st.Leads, middleware.SetLeadsByStage, cfg.Stats.Interval, logger)
	go stats.Start(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.Store.Driver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
