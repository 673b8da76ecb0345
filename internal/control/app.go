package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vietddude/oldestdate/internal/core/config"
	"github.com/vietddude/oldestdate/internal/core/domain"
	"github.com/vietddude/oldestdate/internal/infra/musicbrainz"
	redisclient "github.com/vietddude/oldestdate/internal/infra/redis"
	"github.com/vietddude/oldestdate/internal/infra/storage"
	"github.com/vietddude/oldestdate/internal/infra/storage/memory"
	"github.com/vietddude/oldestdate/internal/infra/storage/postgres"
	"github.com/vietddude/oldestdate/internal/resolution"
	"github.com/vietddude/oldestdate/internal/resolution/cache"
	"github.com/vietddude/oldestdate/internal/resolution/health"
	"github.com/vietddude/oldestdate/internal/resolution/retry"
)

// App wires the resolver, its remote client and the track library.
type App struct {
	cfg          *config.AppConfig
	Client       *musicbrainz.Client
	Cache        *cache.RecordingCache
	Resolver     *resolution.Resolver
	Tracks       storage.TrackRepository
	Processor    *Processor
	healthMon    *health.Monitor
	healthServer *health.Server
	db           *postgres.DB
	redisClient  *redisclient.Client
	shared       *redisclient.RecordingStore
	log          *slog.Logger
}

// StatusReport summarizes the library and the resolver's dependencies.
type StatusReport struct {
	Storage     string
	Library     storage.LibraryStats
	SharedCache int64 // -1 when no shared tier is configured
	MusicBrainz musicbrainz.MonitorStats
	Health      health.HealthReport
}

// ResolverOptions converts the resolver section of the configuration.
func ResolverOptions(rc config.ResolverConfig) (resolution.Options, error) {
	approach, err := domain.ParseApproach(rc.Approach)
	if err != nil {
		return resolution.Options{}, err
	}
	return resolution.Options{
		Approach:         approach,
		ReleaseTypes:     rc.ReleaseTypes,
		FilterRecordings: rc.FilterRecordings,
		UseFileDate:      rc.UseFileDate,
		Retry: retry.Config{
			MaxAttempts: rc.MaxNetworkRetries,
			Unit:        rc.BackoffUnit,
		},
	}, nil
}

// NewApp creates a new App with all dependencies initialized.
func NewApp(ctx context.Context, cfg *config.AppConfig) (_ *App, err error) {
	opts, err := ResolverOptions(cfg.Resolver)
	if err != nil {
		return nil, fmt.Errorf("invalid resolver config: %w", err)
	}

	app := &App{
		cfg:       cfg,
		healthMon: health.NewMonitor(),
		log:       slog.Default().With("component", "app"),
	}
	defer func() {
		if err != nil {
			_ = app.closeResources()
		}
	}()

	// 1. Initialize Storage
	if cfg.Database.URL != "" {
		app.db, err = postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := app.db.Migrate(ctx); err != nil {
			return nil, err
		}
		app.Tracks = postgres.NewTrackRepo(app.db)
		app.healthMon.Register("database", health.PingProbe(app.db.Health, health.StatusCritical))
		app.log.Info("Using PostgreSQL storage")
	} else {
		app.Tracks = memory.NewTrackRepo(memory.NewMemoryStorage())
		app.log.Info("Using Memory storage")
	}

	// 2. Initialize the shared cache tier
	var shared cache.Store
	if cfg.Redis.URL != "" {
		app.redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		app.shared = redisclient.NewRecordingStore(app.redisClient)
		shared = app.shared
		app.healthMon.Register("redis", health.PingProbe(app.redisClient.Ping, health.StatusDegraded))
		app.log.Info("Using Redis shared recording cache")
	}

	// 3. Initialize the resolver
	app.Client = musicbrainz.NewClient(cfg.MusicBrainz)
	app.healthMon.Register("musicbrainz", health.MusicBrainzProbe(app.Client.Monitor))

	app.Cache = cache.New(app.Client, shared, cache.Config{
		Size:  cfg.Resolver.CacheSize,
		TTL:   cfg.Resolver.CacheTTL,
		Retry: opts.Retry,
	})
	app.Resolver = resolution.NewResolver(app.Cache, app.Client, opts)
	app.Processor = NewProcessor(app.Resolver, app.Tracks, ProcessorConfig{
		Force:         cfg.Library.Force,
		OverwriteYear: cfg.Library.OverwriteYear,
	})

	// 4. Health server
	if cfg.Server.Port > 0 {
		app.healthServer = health.NewServer(app.healthMon, cfg.Server.Port)
	}

	return app, nil
}

// Start starts the background components.
func (a *App) Start(ctx context.Context) error {
	if a.healthServer != nil {
		go func() {
			a.log.Info("Starting health server", "port", a.cfg.Server.Port)
			if err := a.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("Health server failed", "error", err)
			}
		}()
	}

	if a.db != nil {
		a.db.StartMetricsCollector(ctx)
	}
	return nil
}

// Stop stops the app and releases its resources.
func (a *App) Stop(ctx context.Context) error {
	var errs []error
	if a.healthServer != nil {
		if err := a.healthServer.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop health server: %w", err))
		}
	}
	if err := a.closeResources(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeResources() error {
	var errs []error
	if a.Client != nil {
		_ = a.Client.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ErrNoLibrary is returned by RequireLibrary when tracks live in memory
// and would be lost when the process exits.
var ErrNoLibrary = errors.New("no persistent track library: set database.url in the config")

// RequireLibrary fails unless the track library is backed by a database.
// Commands that read or write the library across runs call it first.
func (a *App) RequireLibrary() error {
	if a.db == nil {
		return ErrNoLibrary
	}
	return nil
}

// AddTrack adds a track to the library, generating an id when none is set.
func (a *App) AddTrack(ctx context.Context, track *domain.Track) error {
	if track.ID == "" {
		track.ID = uuid.NewString()
	}
	if err := a.Tracks.Add(ctx, track); err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}
	return nil
}

// Status reports library statistics and dependency health.
func (a *App) Status(ctx context.Context) (*StatusReport, error) {
	stats, err := a.Tracks.Stats(ctx)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{
		Storage:     "memory",
		Library:     stats,
		SharedCache: -1,
		MusicBrainz: a.Client.Monitor.Stats(),
		Health:      a.healthMon.CheckHealth(ctx),
	}
	if a.db != nil {
		report.Storage = "postgres"
	}
	if a.shared != nil {
		n, err := a.shared.Count(ctx)
		if err != nil {
			a.log.Warn("Failed to count shared cache entries", "error", err)
		} else {
			report.SharedCache = n
		}
	}
	return report, nil
}

// ErrNoSharedCache is returned by cache maintenance when redis is not
// configured.
var ErrNoSharedCache = errors.New("shared cache is not configured")

// ForgetRecordings drops recordings from the shared cache. No ids purges
// every entry.
func (a *App) ForgetRecordings(ctx context.Context, ids ...string) error {
	if a.shared == nil {
		return ErrNoSharedCache
	}
	if len(ids) == 0 {
		return a.shared.Purge(ctx)
	}
	for _, id := range ids {
		a.Cache.Evict(id)
		if err := a.shared.Forget(ctx, id); err != nil {
			return fmt.Errorf("failed to forget recording %s: %w", id, err)
		}
	}
	return nil
}
