package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/syllabus"
	"github.com/aretw0/syllabus/internal/config"
	"github.com/aretw0/syllabus/pkg/adapters/catalog"
	"github.com/aretw0/syllabus/pkg/adapters/file"
	"github.com/aretw0/syllabus/pkg/adapters/redis"
	"github.com/aretw0/syllabus/pkg/domain"
)

// lockPrefix namespaces the per-learner session lock next to the Redis ledger.
const lockPrefix = "syllabus:"

// createEngine initializes a Syllabus engine from the configuration.
// Paths left empty keep the engine defaults under cfg.Dir.
func createEngine(cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*syllabus.Engine, error) {
	engineOpts := []syllabus.Option{
		syllabus.WithLogger(logger),
		syllabus.WithLearner(cfg.Learner),
	}

	// 1. Logger & Hooks
	if cfg.Debug {
		engineOpts = append(engineOpts, syllabus.WithLifecycleHooks(createDebugHooks(logger)))
	}
	for _, h := range hooks {
		engineOpts = append(engineOpts, syllabus.WithLifecycleHooks(h))
	}

	// 2. Sources
	if p := cfg.Resolve(cfg.Catalog); p != "" {
		engineOpts = append(engineOpts, syllabus.WithCatalog(catalog.NewFile(p)))
	}
	if p := cfg.Resolve(cfg.Lessons); p != "" {
		lessons, err := syllabus.OpenLessons(p)
		if err != nil {
			return nil, err
		}
		if lessons != nil {
			engineOpts = append(engineOpts, syllabus.WithLessons(lessons))
		} else {
			logger.Warn("Lesson directory not found", "dir", p)
		}
	}
	if p := cfg.Resolve(cfg.Workspace); p != "" {
		engineOpts = append(engineOpts, syllabus.WithWorkspace(p))
	}

	// 3. Ledger backend
	switch cfg.LedgerBackend {
	case config.BackendRedis:
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Learner)
		engineOpts = append(engineOpts,
			syllabus.WithLedger(store),
			syllabus.WithLocker(redis.NewLocker(store.Client(), lockPrefix)),
		)
		logger.Debug("Using Redis ledger", "addr", cfg.RedisAddr, "key", store.Key())
	case config.BackendFile, "":
		if p := cfg.Resolve(cfg.Ledger); p != "" {
			engineOpts = append(engineOpts, syllabus.WithLedger(file.New(p)))
		}
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}

	engine, err := syllabus.New(cfg.Dir, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
