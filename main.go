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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blesswrld/codesync/backend/go-services/handlers"
	"github.com/blesswrld/codesync/backend/go-services/internal/comments"
	"github.com/blesswrld/codesync/backend/go-services/internal/config"
	"github.com/blesswrld/codesync/backend/go-services/internal/database"
	"github.com/blesswrld/codesync/backend/go-services/internal/interviews"
	"github.com/blesswrld/codesync/backend/go-services/internal/oidc"
	"github.com/blesswrld/codesync/backend/go-services/internal/realtime"
	"github.com/blesswrld/codesync/backend/go-services/internal/scheduling"
	"github.com/blesswrld/codesync/backend/go-services/internal/storage"
	"github.com/blesswrld/codesync/backend/go-services/internal/users"
	"github.com/blesswrld/codesync/backend/go-services/internal/video"
	"github.com/blesswrld/codesync/backend/go-services/internal/webhook"
	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
	"github.com/blesswrld/codesync/backend/go-services/pkg/metrics"
	"github.com/blesswrld/codesync/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

type repositories struct {
	users      users.UserRepository
	interviews interviews.Repository
	comments   comments.Repository
}

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	if os.Getenv("LOG_FORMAT") == "console" {
		logger.UseConsole(os.Stderr)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v video=%v minio=%v",
		cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Video.BaseURL != "", cfg.Recordings.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins), middleware.RequestLogger(), gin.Recovery())

	// Redis backs topic versions and the shared rate limiter when reachable
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s), using in-memory versions: %v", cfg.Redis.Host, cfg.Redis.Port, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
			defer func() { _ = rdb.Close() }()
		}
	}
	var versions realtime.VersionStore = realtime.NewMemoryVersions()
	if rdb != nil {
		versions = realtime.NewRedisVersions(rdb, "codesync:topic:")
	}
	hub := realtime.NewHub()
	notifier := realtime.NewNotifier(versions, hub)

	var mongoClient *mongo.Client
	repos := repositories{
		users:      users.NewMemoryRepo(),
		interviews: interviews.NewMemoryRepo(),
		comments:   comments.NewMemoryRepo(),
	}
	if cfg.MongoDB.URI != "" {
		mongoClient, err = database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		repos, err = mongoRepositories(ctx, mongoClient.Database(cfg.MongoDB.Database))
		if err != nil {
			logger.Fatalf("failed to prepare MongoDB collections: %v", err)
		}
		logger.Infof("using MongoDB database %s", cfg.MongoDB.Database)
	}

	userSvc := users.NewService(repos.users, notifier)
	interviewSvc := interviews.NewService(repos.interviews, notifier, interviews.Options{StrictTransitions: cfg.Interviews.StrictTransitions})
	commentSvc := comments.NewService(repos.comments, interviewSvc, notifier)

	var provider video.Provider
	if cfg.Video.BaseURL != "" {
		provider = video.NewHTTPProvider(cfg.Video)
	} else {
		logger.Warn("VIDEO_BASE_URL is not set; calls are not created with a provider")
		provider = video.NoopProvider{Secret: cfg.Video.APISecret, TTL: cfg.Video.UserTokenTTL}
	}

	var recordings *storage.RecordingStore
	if cfg.Recordings.Endpoint != "" {
		objects, err := storage.NewMinIOStorage(ctx, cfg.Recordings)
		if err != nil {
			logger.Warnf("recordings disabled: %v", err)
		} else {
			recordings = storage.NewRecordingStore(objects, cfg.Recordings.PresignTTL)
		}
	}

	verifier, err := oidc.New(ctx, cfg.Keycloak)
	if err != nil {
		logger.Fatalf("failed to initialize token verifier: %v", err)
	}

	var limit []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			limit = append(limit, middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			limit = append(limit, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	api := handlers.NewAPI(handlers.Deps{
		Users:          userSvc,
		Interviews:     interviewSvc,
		Comments:       commentSvc,
		Scheduler:      scheduling.NewScheduler(userSvc, interviewSvc, provider),
		Video:          provider,
		VideoAPIKey:    cfg.Video.APIKey,
		Recordings:     recordings,
		Versions:       notifier,
		Hub:            hub,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	api.Register(r, middleware.AuthMiddleware(verifier), limit...)

	if cfg.Webhook.Secret != "" {
		wv, err := webhook.NewVerifier(cfg.Webhook.Secret, cfg.Webhook.Tolerance)
		if err != nil {
			logger.Fatalf("invalid WEBHOOK_SECRET: %v", err)
		}
		handlers.NewWebhookHandler(wv, webhook.NewProcessor(userSvc)).Register(r)
	}
	handlers.RegisterSwagger(r)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(reg)
	handlers.RegisterOps(r, startTime, reg, readinessChecks(mongoClient, rdb))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting interview service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

func mongoRepositories(ctx context.Context, db *mongo.Database) (repositories, error) {
	u, err := users.NewMongoUserRepository(ctx, db.Collection("users"))
	if err != nil {
		return repositories{}, err
	}
	iv, err := interviews.NewMongoRepo(ctx, db.Collection("interviews"))
	if err != nil {
		return repositories{}, err
	}
	cm, err := comments.NewMongoRepo(ctx, db.Collection("comments"))
	if err != nil {
		return repositories{}, err
	}
	return repositories{users: u, interviews: iv, comments: cm}, nil
}

// readinessChecks pings the configured backing stores. Unconfigured stores
// are not checked.
func readinessChecks(mc *mongo.Client, rdb *redis.Client) map[string]handlers.Check {
	checks := map[string]handlers.Check{}
	if mc != nil {
		checks["mongo"] = func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return mc.Ping(ctx, nil) == nil
		}
	}
	if rdb != nil {
		checks["redis"] = func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return rdb.Ping(ctx).Err() == nil
		}
	}
	return checks
}
