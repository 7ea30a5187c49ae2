package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/weiawesome/wes-dashboard/internal/cache"
	"github.com/weiawesome/wes-dashboard/internal/config"
	"github.com/weiawesome/wes-dashboard/internal/domain"
	"github.com/weiawesome/wes-dashboard/internal/handler"
	"github.com/weiawesome/wes-dashboard/internal/index"
	"github.com/weiawesome/wes-dashboard/internal/naming"
	"github.com/weiawesome/wes-dashboard/internal/repository"
	"github.com/weiawesome/wes-dashboard/internal/service"
	"github.com/weiawesome/wes-dashboard/pkg/database"
	pkglog "github.com/weiawesome/wes-dashboard/pkg/log"
	"github.com/weiawesome/wes-dashboard/pkg/storage"
)

const memoryCacheCapacity = 10000

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	logger := pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "dashboard",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db, &domain.ItemModel{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	logger.Info().Str(pkglog.FieldDriver, cfg.Database.Driver).Msg("database connected")

	// Initialize search index
	store, err := newIndexStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create search index")
	}
	defer store.Close()

	if err := store.EnsureIndex(ctx); err != nil {
		logger.Fatal().Err(err).Str("index", cfg.Index.Name).Msg("failed to ensure search index")
	}
	logger.Info().Str(pkglog.FieldDriver, cfg.Index.Driver).Str("index", cfg.Index.Name).Msg("search index ready")

	// Initialize result cache
	resultCache := newResultCache(ctx, cfg)
	defer resultCache.Close()

	// Initialize image storage
	images, err := newStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create image storage")
	}

	names, err := naming.New(cfg.Images.NameGenerator)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create name generator")
	}

	// Initialize services
	itemService := service.NewItemService(
		repository.NewGormItemRepository(db),
		store,
		images,
		names,
		cfg.Images.Prefix,
		service.LoadLocation(cfg.Item.Timezone),
	)
	searchService := service.NewSearchService(store, resultCache, cfg.Cache.Prefix, cfg.Cache.TTL)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))
	r.Use(cors.New(corsConfig()))

	handler.NewHandler(itemService, searchService, images, cfg.Images.Prefix).RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", addr).Msg("dashboard starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down dashboard")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server error")
	}
	logger.Info().Msg("dashboard stopped")
}

func newIndexStore(cfg *config.Config) (index.Store, error) {
	switch cfg.Index.Driver {
	case "elasticsearch":
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{cfg.Elasticsearch.Address()},
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
		})
		if err != nil {
			return nil, err
		}
		return index.NewElasticsearchStore(client, cfg.Index.Name, cfg.Index.MaxResults, cfg.Elasticsearch.Refresh), nil
	case "bleve":
		return index.OpenBleveStore(cfg.Bleve.Path, cfg.Index.MaxResults)
	case "memory":
		return index.NewMemoryStore(cfg.Index.MaxResults), nil
	default:
		return nil, fmt.Errorf("unsupported index driver: %s", cfg.Index.Driver)
	}
}

// newResultCache never fails: an unusable cache degrades to no caching.
func newResultCache(ctx context.Context, cfg *config.Config) cache.ResultCache {
	logger := pkglog.L()

	switch cfg.Cache.Driver {
	case "redis":
		rc := cache.NewRedisResultCache(ctx, cfg.Redis, cfg.Cache.Timeout)
		if !rc.Disabled() {
			logger.Info().Str("addr", cfg.Redis.Address()).Msg("redis connected")
		}
		return rc
	case "memory":
		return cache.NewMemoryResultCache(memoryCacheCapacity)
	case "none", "":
		return cache.NoopCache{}
	default:
		logger.Warn().Str(pkglog.FieldDriver, cfg.Cache.Driver).Msg("unknown cache driver, caching disabled")
		return cache.NoopCache{}
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "local":
		return storage.NewLocalStorage(cfg.Storage.Local)
	case "s3":
		s, err := storage.NewS3Storage(ctx, cfg.Storage.S3)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

func corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowAllOrigins = true
	c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	c.AllowHeaders = []string{"*"}
	c.ExposeHeaders = []string{"X-Request-ID"}
	return c
}
