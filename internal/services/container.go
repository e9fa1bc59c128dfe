package services

import (
	"context"
	"errors"

	"crowdwatch-worker-go/internal/config"
	"crowdwatch-worker-go/internal/models"
	"crowdwatch-worker-go/internal/services/messaging"
	"crowdwatch-worker-go/internal/worker"
)

// ServiceContainer holds all services
type ServiceContainer struct {
	Config         *config.Config
	Classification *config.Classification
	Messaging      *messaging.Service
	Worker         *worker.Worker
}

// NewServiceContainer loads the classification document, connects to NATS when
// messaging is enabled and builds the worker on top of both.
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	rules, err := config.LoadClassification(cfg.ClassificationConfigPath)
	if err != nil {
		return nil, err
	}

	sc := &ServiceContainer{
		Config:         cfg,
		Classification: rules,
	}

	var publisher models.MessagePublisher
	if cfg.MessagingEnabled {
		msgSvc, err := messaging.NewService(cfg)
		if err != nil {
			return nil, err
		}
		sc.Messaging = msgSvc
		publisher = msgSvc
	}

	w, err := worker.New(cfg, rules, publisher)
	if err != nil {
		_ = sc.shutdownMessaging(context.Background())
		return nil, err
	}
	sc.Worker = w

	return sc, nil
}

// Start begins consuming zone batches from NATS, if connected
func (sc *ServiceContainer) Start(ctx context.Context) error {
	var source worker.BatchSource
	if sc.Messaging != nil {
		source = sc.Messaging
	}
	return sc.Worker.Start(ctx, source)
}

// MessagingStatus reports NATS connectivity, or nil when messaging is disabled
func (sc *ServiceContainer) MessagingStatus() func() bool {
	if sc.Messaging == nil {
		return nil
	}
	return sc.Messaging.IsConnected
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	var errs []error
	if sc.Worker != nil {
		if err := sc.Worker.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := sc.shutdownMessaging(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (sc *ServiceContainer) shutdownMessaging(ctx context.Context) error {
	if sc.Messaging == nil {
		return nil
	}
	return sc.Messaging.Shutdown(ctx)
}
