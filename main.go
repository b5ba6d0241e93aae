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

	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/domain/repository"
	"yt-channel-fetcher/infrastructure/cache"
	youtubeclient "yt-channel-fetcher/infrastructure/clients/youtube"
	"yt-channel-fetcher/infrastructure/configuration"
	"yt-channel-fetcher/infrastructure/export"
	"yt-channel-fetcher/infrastructure/filecsv"
	"yt-channel-fetcher/infrastructure/googlesheet"
	"yt-channel-fetcher/infrastructure/logger"
	"yt-channel-fetcher/infrastructure/persistence"
	"yt-channel-fetcher/infrastructure/pubsub"
	"yt-channel-fetcher/infrastructure/realtime"
	httpHandler "yt-channel-fetcher/interfaces/http"
	"yt-channel-fetcher/interfaces/middleware"
	"yt-channel-fetcher/server"
	"yt-channel-fetcher/usecase"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const sweepInterval = 10 * time.Minute

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// OS env keeps precedence over the files
	if n := configuration.LoadEnvFromFile("config.env", ".env"); n > 0 {
		logger.GetLogger().WithField("vars", n).Info("Loaded environment from file")
		configuration.Reload()
	}
	cfg := configuration.C

	sessions, sweep, err := InitiateSessionStore(ctx, cfg)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Session store initialization failed")
		os.Exit(1)
	}

	ytConfig := configuration.GetYouTubeConfig()
	logger.GetLogger().WithFields(map[string]interface{}{
		"hasAPIKey":      ytConfig.APIKey != "",
		"hasAccessToken": ytConfig.AccessToken != "",
		"endpoint":       ytConfig.Endpoint,
	}).Info("Loaded YouTube configuration state")
	factory := youtubeclient.NewFactory(youtubeclient.Config{
		APIKey:      ytConfig.APIKey,
		AccessToken: ytConfig.AccessToken,
		Endpoint:    ytConfig.Endpoint,
	})

	channelUseCase := usecase.NewChannelUseCase(factory, sessions, model.FetchOptions{
		IncludeLive:      cfg.Fetch.IncludeLive,
		IncludePlaylists: cfg.Fetch.IncludePlaylists,
		PageSize:         cfg.Fetch.PageSize,
	}).WithExporters(export.NewXLSXExporter(), filecsv.NewCSVExporter())

	if cfg.GoogleSheet.CredentialsFile != "" {
		sheetsService, err := googlesheet.NewSheetsService(ctx, googlesheet.Config{
			CredentialsFile: cfg.GoogleSheet.CredentialsFile,
			Endpoint:        cfg.GoogleSheet.Endpoint,
		})
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Google Sheets not available - continuing without Sheets export")
		} else {
			channelUseCase = channelUseCase.WithSheetExporter(googlesheet.NewSheetExporter(sheetsService))
		}
	}

	if cfg.Pubsub.ProjectID != "" {
		pubSubClient, err := pubsub.NewPubSub(ctx, cfg.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("PubSub not available - continuing without fetch events")
		} else {
			defer pubSubClient.Close()
			publisher := pubsub.NewFetchEventPublisher(pubSubClient, cfg.Pubsub.TopicID)
			defer publisher.Stop()
			channelUseCase = channelUseCase.WithEventPublisher(publisher)
		}
	}

	hub := realtime.NewProgressHub()
	channelHandler := httpHandler.NewChannelHandler(channelUseCase, hub, cfg.Fetch.FetchTimeout())
	router := server.InitiateRouter(server.RouterConfig{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Session: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.SessionTTL(),
			Secure:     cfg.App.TLSEnabled,
		},
	}, channelHandler)

	if sweep != nil {
		g.Go(func() error {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					sweep(ctx)
				}
			}
		})
	}

	app := cfg.App
	logger.GetLogger().WithFields(map[string]interface{}{
		"port":    app.Port,
		"tls":     app.TLSEnabled,
		"session": cfg.Session.Store,
	}).Info("Starting application")
	g.Go(func() error {
		// no write timeout: progress streams stay open for the whole fetch
		httpServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", app.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			logger.GetLogger().WithFields(map[string]interface{}{"cert": app.TLSCertFile, "key": app.TLSKeyFile}).Info("Serving HTTPS")
			if err := httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
		if app.TLSEnabled {
			logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateSessionStore builds the configured session store. The returned sweep, when not nil,
// drops expired sessions and is run periodically.
func InitiateSessionStore(ctx context.Context, cfg configuration.Config) (repository.ISessionStore, func(context.Context), error) {
	ttl := cfg.Session.SessionTTL()
	switch cfg.Session.Store {
	case configuration.SessionStoreRedis:
		client, err := connectRedis(ctx, cfg.RedisClient)
		if err != nil {
			return nil, nil, err
		}
		logger.GetLogger().Info("Redis session store initialized")
		// redis expires keys itself
		return cache.NewRedisSessionStore(client, ttl), nil, nil

	case configuration.SessionStorePostgres:
		db, err := persistence.NewPostgreSQLDB(cfg.Database.Psql)
		if err != nil {
			return nil, nil, err
		}
		if err := persistence.EnsureSessionSchema(db); err != nil {
			return nil, nil, err
		}
		repo := persistence.NewSessionRepository(db, ttl)
		logger.GetLogger().Info("PostgreSQL session store initialized")
		return repo, func(ctx context.Context) {
			n, err := repo.PurgeExpired(ctx)
			if err != nil {
				logger.GetLogger().WithField("error", err).Warn("Failed to purge expired sessions")
				return
			}
			logger.GetLogger().WithField("purged", n).Debug("Expired sessions purged")
		}, nil

	default:
		store := cache.NewMemorySessionStore(ttl)
		return store, func(context.Context) {
			logger.GetLogger().WithField("purged", store.Sweep()).Debug("Expired sessions swept")
		}, nil
	}
}

func connectRedis(ctx context.Context, rc configuration.RedisClient) (*redis.Client, error) {
	if rc.URL != "" {
		return cache.NewCacheFromURL(ctx, rc.URL)
	}
	return cache.NewCache(ctx, fmt.Sprintf("%s:%s", rc.Host, rc.Port), rc.Username, rc.Password)
}
