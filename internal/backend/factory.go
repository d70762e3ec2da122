package backend

import (
	"context"
	"fmt"

	"chitieu/internal/amqp"
	"chitieu/internal/api"
	"chitieu/internal/api/memory"
	"chitieu/internal/api/rest"
	"chitieu/internal/log"
	"chitieu/internal/services"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend builds the configured backend and, when a broker is
// configured, wraps it so successful writes are journaled.
func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	var (
		b   api.Backend
		err error
	)
	switch config.Type {
	case RESTBackend:
		b, err = f.createRESTBackend(config)
	case MemoryBackend:
		b = f.createMemoryBackend()
	}
	if err != nil {
		return nil, err
	}

	if config.AMQPURL == "" {
		return &BackendResult{Backend: b}, nil
	}

	amqpClient, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without activity journal", log.FieldError, err)
		return &BackendResult{Backend: b}, nil
	}
	f.logger.Info("Initialized AMQP client",
		log.FieldExchange, config.AMQPExchange,
		log.FieldQueue, config.AMQPQueue)

	return &BackendResult{
		Backend: services.NewJournalingBackend(b, amqpClient, f.logger),
		Cleanup: amqpClient.Close,
	}, nil
}

func (f *DefaultFactory) createRESTBackend(config Config) (api.Backend, error) {
	cli, err := rest.New(config.APIBaseURL, config.APITimeout, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize REST client: %w", err)
	}
	f.logger.Info("Initialized REST backend", log.FieldBaseURL, config.APIBaseURL, log.FieldTimeout, config.APITimeout)
	return cli, nil
}

func (f *DefaultFactory) createMemoryBackend() api.Backend {
	f.logger.Info("Initialized memory backend with seed data")
	return memory.NewSeeded()
}
