package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"admindash/internal/adapters"
	"admindash/internal/amqp"
	"admindash/internal/store"
	"admindash/internal/store/firestore"
	"admindash/internal/store/memory"
	"admindash/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// Create opens the configured store. When AMQP is configured and reachable,
// the store is wrapped so that writes publish change messages; an unreachable
// broker only disables publishing.
func (f *DefaultFactory) Create(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		s   store.Store
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		s, err = f.createSQLite(config)
	case FirestoreBackend:
		s, err = f.createFirestore(ctx, config)
	case MemoryBackend:
		s, err = f.createMemory(config)
	default:
		err = fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{Store: s, Cleanup: s.Close}
	if config.AMQPURL == "" {
		return res, nil
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		return res, nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	res.Store = adapters.NewPublishingStore(s, client)
	res.Publishing = true
	res.Cleanup = func() error {
		return errors.Join(client.Close(), s.Close())
	}
	return res, nil
}

func (f *DefaultFactory) createSQLite(config Config) (store.Store, error) {
	s, err := sqlite.Open(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return s, nil
}

func (f *DefaultFactory) createFirestore(ctx context.Context, config Config) (store.Store, error) {
	s, err := firestore.New(ctx, firestore.Options{
		ProjectID:       config.FirestoreProjectID,
		CredentialsFile: config.GoogleCredentialsFile,
		CredentialsJSON: config.GoogleCredentialsJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firestore client: %w", err)
	}
	f.logger.Info("Initialized Firestore backend", "project_id", config.FirestoreProjectID)
	return s, nil
}

func (f *DefaultFactory) createMemory(config Config) (store.Store, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}
	s, err := memory.NewFromFiles(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to seed memory backend: %w", err)
	}
	f.logger.Info("Initialized memory backend", "data_directory", dataDir)
	return s, nil
}
