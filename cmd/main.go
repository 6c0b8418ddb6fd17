package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"blog/pkg/config"
	"blog/pkg/logger"
	"blog/pkg/middleware"
	"blog/pkg/post"
)

const connectTimeout = 10 * time.Second

type postStore interface {
	post.IPostRepo
	postAdder
}

func main() {
	storage := flag.String("storage", "", "storage backend: memory, mongo, postgres or redis (overrides STORAGE)")
	seedPosts := flag.Int("seed", -1, "generate this many fake posts on startup (overrides SEED_POSTS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalln("main: can't load config:", err)
	}
	if *storage != "" {
		cfg.Storage = strings.ToLower(strings.TrimSpace(*storage))
	}
	if *seedPosts >= 0 {
		cfg.SeedPosts = *seedPosts
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalln("main:", err)
	}

	zapLogger := logger.Run(cfg.LogLevel, logger.WithFile(cfg.LogFile))
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zapLogger); err != nil {
		zapLogger.Errorf("main: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, zapLogger *zap.SugaredLogger) error {
	postsRepo, closeRepo, err := openRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	if cfg.SeedPosts > 0 {
		if err := seed(ctx, postsRepo, cfg.SeedPosts); err != nil {
			return err
		}
		zapLogger.Infow("seeded fake posts", "count", cfg.SeedPosts, "storage", cfg.Storage)
	}

	postHandler := post.NewPostHandler(postsRepo, post.NewFormatter(time.Local), cfg.StoreTimeout)
	logMiddleware := middleware.NewLoggingMiddleware(zapLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(postHandler, logMiddleware),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLogger.Infow("serving", "url", "http://localhost:"+cfg.Port+"/", "storage", cfg.Storage)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zapLogger.Infow("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// openRepo connects to the configured backend. The returned func releases
// its clients.
func openRepo(ctx context.Context, cfg *config.Config) (postStore, func(), error) {
	connCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.Storage {
	case config.StorageMemory:
		return post.NewMemRepo(), func() {}, nil

	case config.StorageMongo:
		mongoClient, err := mongo.Connect(connCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("can't connect to MongoDB: %w", err)
		}
		if err := mongoClient.Ping(connCtx, nil); err != nil {
			_ = mongoClient.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("unable to reach MongoDB: %w", err)
		}
		postsColl := mongoClient.Database(cfg.MongoDatabase).Collection("posts")
		return post.NewPostRepo(postsColl), func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				logger.Log(context.Background()).Errorf("main: failed disconnecting from MongoDB: %v", err)
			}
		}, nil

	case config.StoragePostgres:
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open PostgreSQL: %w", err)
		}
		if err := db.PingContext(connCtx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("unable to reach PostgreSQL: %w", err)
		}
		sqlRepo := post.NewSQLRepo(db)
		if err := sqlRepo.Migrate(connCtx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlRepo, func() { db.Close() }, nil

	case config.StorageRedis:
		pool := post.NewRedisPool(cfg.RedisAddr)
		conn, err := pool.GetContext(connCtx)
		if err == nil {
			_, err = conn.Do("PING")
			conn.Close()
		}
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("can't connect to Redis: %w", err)
		}
		return post.NewRedisRepo(pool), func() { pool.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}
