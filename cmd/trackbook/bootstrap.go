package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BearBump/trackbook/config"
	"github.com/BearBump/trackbook/internal/broker/changes"
	"github.com/BearBump/trackbook/internal/broker/kafka"
	"github.com/BearBump/trackbook/internal/integrations/carrier"
	"github.com/BearBump/trackbook/internal/integrations/carrier/fake"
	"github.com/BearBump/trackbook/internal/integrations/carrier/httpcarrier"
	"github.com/BearBump/trackbook/internal/models"
	"github.com/BearBump/trackbook/internal/services/contacts"
	"github.com/BearBump/trackbook/internal/services/shipments"
	"github.com/BearBump/trackbook/internal/storage"
	"github.com/BearBump/trackbook/internal/storage/filekv"
	"github.com/BearBump/trackbook/internal/storage/memkv"
	"github.com/BearBump/trackbook/internal/storage/pgkv"
	"github.com/BearBump/trackbook/internal/storage/rediskv"
	"github.com/BearBump/trackbook/internal/store"
)

const defaultTopic = "records.changed"

type closer func()

type factories struct {
	newKV          func(cfg *config.Config) (kv storage.KV, closeFn closer, err error)
	newCarrier     func(cfg *config.Config) carrier.Client
	newProducer    func(cfg *config.Config) (p changes.Producer, closeFn closer)
	newRateLimiter func(cfg *config.Config) (rl shipments.RateLimiter, closeFn closer)
}

func defaultFactories() factories {
	return factories{
		newKV: func(cfg *config.Config) (storage.KV, closer, error) {
			switch cfg.Storage.Backend {
			case storage.BackendMemory:
				return memkv.New(), nil, nil
			case "", storage.BackendFile:
				st, err := filekv.New(cfg.Storage.FilePath)
				if err != nil {
					return nil, nil, err
				}
				slog.Debug("file storage", "path", st.Path())
				return st, nil, nil
			case storage.BackendRedis:
				st := rediskv.New(cfg.Redis.Addr())
				return st, func() { _ = st.Close() }, nil
			case storage.BackendPostgres:
				st, err := openPostgresWithRetry(cfg.Database.ConnString(), 30*time.Second)
				if err != nil {
					return nil, nil, err
				}
				return st, st.Close, nil
			default:
				return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
			}
		},
		newCarrier: func(cfg *config.Config) carrier.Client {
			// http: эмулятор перевозчика по base_url, иначе локальный fake.
			if cfg.Trackbook.CarrierSource == "http" && cfg.Trackbook.CarrierBaseURL != "" {
				return httpcarrier.New(cfg.Trackbook.CarrierBaseURL, cfg.Trackbook.CarrierAPIKey)
			}
			if cfg.Trackbook.CarrierSeed != 0 {
				return fake.NewSeeded(cfg.Trackbook.CarrierSeed)
			}
			return fake.New()
		},
		newProducer: func(cfg *config.Config) (changes.Producer, closer) {
			if !cfg.Kafka.Enabled() {
				return nil, nil
			}
			p := kafka.NewProducer(cfg.Kafka.Brokers())
			return p, func() { _ = p.Close() }
		},
		newRateLimiter: func(cfg *config.Config) (shipments.RateLimiter, closer) {
			if !cfg.Redis.Enabled() || cfg.Trackbook.CarrierRateLimitPerMinute <= 0 {
				return nil, nil
			}
			rl := rediskv.NewRateLimiter(cfg.Redis.Addr())
			return rl, func() { _ = rl.Close() }
		},
	}
}

func openPostgresWithRetry(connString string, wait time.Duration) (*pgkv.Storage, error) {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pgkv.New(connString)
		if err == nil {
			return st, nil
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	return nil, fmt.Errorf("postgres is not ready after %s: %w", wait, lastErr)
}

// app: собранные сторы и контроллеры одного процесса.
type app struct {
	cfg       *config.Config
	shipStore *store.Store[models.Shipment]
	contStore *store.Store[models.Contact]
	shipments *shipments.Service
	contacts  *contacts.Service
	closers   []closer
}

func bootstrap(ctx context.Context, cfg *config.Config, f factories) (*app, error) {
	kv, closeKV, err := f.newKV(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}
	a.addCloser(closeKV)

	a.shipStore = store.New[models.Shipment](kv, storage.ShipmentsKey)
	a.contStore = store.New[models.Contact](kv, storage.ContactsKey)
	if err := a.shipStore.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.contStore.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.shipments = shipments.New(a.shipStore, f.newCarrier(cfg))
	a.contacts = contacts.New(a.contStore)

	if producer, closeFn := f.newProducer(cfg); producer != nil {
		a.addCloser(closeFn)
		topic := cfg.Kafka.RecordsChangedTopicName
		if topic == "" {
			topic = defaultTopic
		}
		pub := changes.NewPublisher(producer, topic)
		a.shipments.WithEvents(pub)
		a.contacts.WithEvents(pub)
	}
	if rl, closeFn := f.newRateLimiter(cfg); rl != nil {
		a.addCloser(closeFn)
		a.shipments.WithRateLimiter(rl, cfg.Trackbook.CarrierRateLimitPerMinute)
	}

	slog.Info("stores loaded",
		"backend", backendName(cfg),
		"shipments", a.shipStore.Len(),
		"contacts", a.contStore.Len())
	return a, nil
}

func (a *app) addCloser(c closer) {
	if c != nil {
		a.closers = append(a.closers, c)
	}
}

// Close runs closers in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func backendName(cfg *config.Config) string {
	if cfg.Storage.Backend == "" {
		return storage.BackendFile
	}
	return cfg.Storage.Backend
}

func loadLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("unknown timezone, using local", "timezone", name, "error", err.Error())
		return time.Local
	}
	return loc
}
