package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/wordlink/wordlink/handlers"
	"github.com/wordlink/wordlink/internal/addin"
	"github.com/wordlink/wordlink/internal/config"
	"github.com/wordlink/wordlink/internal/database"
	"github.com/wordlink/wordlink/internal/document/handler"
	"github.com/wordlink/wordlink/internal/document/repository"
	"github.com/wordlink/wordlink/internal/document/service"
	"github.com/wordlink/wordlink/internal/document/watcher"
	"github.com/wordlink/wordlink/internal/oidc"
	"github.com/wordlink/wordlink/internal/storage"
	"github.com/wordlink/wordlink/internal/updates"
	"github.com/wordlink/wordlink/internal/winreg"
	"github.com/wordlink/wordlink/pkg/logger"
	"github.com/wordlink/wordlink/pkg/metrics"
	"github.com/wordlink/wordlink/pkg/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

var startTime = time.Now()

const mongoAttempts = 5

// server holds everything the router and readiness probe need.
type server struct {
	cfg       *config.Config
	docs      repository.Repository
	documents *service.Service
	updates   *updates.Service
	installer handlers.Installer
	verifier  middleware.Verifier
	redis     *redis.Client
}

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: documents=%s updates=%s mongo=%v redis=%v oidc=%v",
		cfg.Documents.Backend, cfg.Updates.Backend, cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.OIDC.Issuer != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Errorf("server stopped: %v", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			if cfg.Updates.Backend == config.UpdatesRedis {
				return fmt.Errorf("redis required for updates: %w", err)
			}
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
			defer rdb.Close()
		}
	}

	var mc *mongo.Client
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongoRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoAttempts, time.Second)
		if err != nil {
			if cfg.Updates.Backend == config.UpdatesMongo {
				return err
			}
			logger.Warnf("%v", err)
		} else {
			mc = client
			defer func() { _ = mc.Disconnect(context.Background()) }()
		}
	}

	updRepo, err := newUpdatesRepository(ctx, cfg, rdb, mc)
	if err != nil {
		return err
	}
	docs, err := newDocumentsRepository(ctx, cfg)
	if err != nil {
		return err
	}

	verifier, err := oidc.New(ctx, cfg.OIDC)
	if err != nil {
		logger.Warnf("failed to initialize OIDC verifier: %v", err)
	}

	s := &server{
		cfg:       cfg,
		docs:      docs,
		updates:   updates.NewService(updRepo),
		installer: addin.NewInstaller(cfg.Addin, winreg.New(), addin.ExecRunner{}),
		verifier:  verifier,
		redis:     rdb,
	}
	s.documents = service.New(docs, s.updates, cfg.Server.PublicURL, cfg.Documents.MaxUploadBytes())

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := s.router()

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("wordlink listening on %s (public URL %s)", addr, cfg.Server.PublicURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infof("shutting down")
		shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shCtx)
	})
	if local, ok := docs.(*repository.LocalRepo); ok && cfg.Documents.Watch {
		w := watcher.New(local.Dir(), s.updates, 0)
		g.Go(func() error {
			if err := w.Run(gctx); err != nil {
				logger.Warnf("document watcher stopped: %v", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func newUpdatesRepository(ctx context.Context, cfg *config.Config, rdb *redis.Client, mc *mongo.Client) (updates.Repository, error) {
	switch cfg.Updates.Backend {
	case config.UpdatesRedis:
		logger.Infof("document updates stored in Redis")
		return updates.NewRedisRepository(rdb, "", cfg.Updates.MaxEntries), nil
	case config.UpdatesMongo:
		logger.Infof("document updates stored in MongoDB")
		col := mc.Database(cfg.MongoDB.Database).Collection(database.UpdatesCollection)
		return updates.NewMongoRepository(ctx, col)
	default:
		logger.Infof("document updates kept in memory (max %d)", cfg.Updates.MaxEntries)
		return updates.NewMemoryRepository(cfg.Updates.MaxEntries), nil
	}
}

func newDocumentsRepository(ctx context.Context, cfg *config.Config) (repository.Repository, error) {
	if cfg.Documents.Backend == config.DocumentsMinIO {
		store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		logger.Infof("documents stored in MinIO bucket %s", store.Bucket())
		return repository.NewObjectRepo(store, "documents"), nil
	}
	local, err := repository.NewLocalRepo(cfg.Documents.Dir)
	if err != nil {
		return nil, err
	}
	logger.Infof("documents stored in %s", local.Dir())
	return local, nil
}

func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(middleware.CORS("GET, POST, PUT, DELETE, OPTIONS"), middleware.AccessLog(), gin.Recovery())

	// per-user when authenticated, otherwise per-IP
	if rl := s.cfg.RateLimit; rl.Enabled {
		if rl.UseRedis && s.redis != nil {
			win := time.Duration(rl.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(s.redis, rl.RPS, rl.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(rl.RPS, rl.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", s.ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	protect := middleware.Protect(s.verifier)
	handler.RegisterDocumentRoutes(r, s.documents, protect...)

	api := r.Group("/api")
	handlers.NewUpdatesHandler(s.updates).Register(api, protect...)
	handlers.NewAddinHandler(s.installer).Register(api, protect...)
	handlers.NewAuthHandler(s.verifier).Register(api)
	return r
}

// ready returns 200 only when the stores answer and configured auth is usable.
func (s *server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := map[string]bool{
		"storage": s.docs.Ping(ctx) == nil,
		"updates": s.updates.Ping(ctx) == nil,
		"oidc":    s.cfg.OIDC.Issuer == "" || s.verifier != nil,
		"redis":   true,
	}
	if s.cfg.RateLimit.Enabled && s.cfg.RateLimit.UseRedis {
		deps["redis"] = s.redis != nil && s.redis.Ping(ctx).Err() == nil
	}

	status, code := "ready", http.StatusOK
	for _, ok := range deps {
		if !ok {
			status, code = "not_ready", http.StatusServiceUnavailable
			break
		}
	}
	c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
}
