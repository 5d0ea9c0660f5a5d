// @title                       Car Rental API
// @version                     1.0
// @description                 Accounts, session authentication, car inventory, bookings and audit log.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/JonaSeguReymundo/Proyecto-SED/docs"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/api"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/api/handler"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/service"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/infrastructure/db/memory"
	mongostore "github.com/JonaSeguReymundo/Proyecto-SED/internal/infrastructure/db/mongo"
	redisstore "github.com/JonaSeguReymundo/Proyecto-SED/internal/infrastructure/db/redis"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/infrastructure/queue"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/infrastructure/ratelimit"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/pkg/config"
	"github.com/JonaSeguReymundo/Proyecto-SED/pkg/logger"
)

// repositories is the persistence backend selected by STORE_DRIVER.
type repositories struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	cars     ports.CarRepository
	bookings ports.BookingRepository
	logs     ports.LogRepository
	pinger   handler.Pinger
	close    func(context.Context) error
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "car-rental-api",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	return serve(ctx, cfg, log, repos)
}

// serve wires the remaining dependencies around repos and blocks until ctx is
// cancelled or the listener fails. repos is closed on every return path.
func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger, repos *repositories) error {
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := repos.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("store close")
		}
	}()

	proxies, err := cfg.ProxyRanges()
	if err != nil {
		return err
	}

	health := map[string]handler.Pinger{"store": repos.pinger}

	// --- Rate limiter ---
	var limiter ports.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close")
			}
		}()
		limiter = redisstore.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)
		health["redis"] = redisstore.Pinger{Client: rdb}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("rate limiter backed by redis")
	} else {
		window := ratelimit.NewWindow(cfg.RateLimit.Max, cfg.RateLimit.Window)
		go window.RunJanitor(ctx)
		limiter = window
		log.Info().Msg("rate limiter running in process")
	}

	// --- Booking events ---
	var publisher ports.BookingEventPublisher
	if cfg.AMQP.URL != "" {
		events, err := queue.DialEventPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, cfg.AMQP.Buffer, log)
		if err != nil {
			return err
		}
		// Outlives ctx so requests still in flight during shutdown can publish.
		eventsCtx, stopEvents := context.WithCancel(context.Background())
		go events.Run(eventsCtx)
		defer func() {
			stopEvents()
			select {
			case <-events.Done():
			case <-time.After(cfg.ShutdownTimeout):
				log.Warn().Msg("booking events not flushed")
			}
		}()
		publisher = events
		log.Info().Str("queue", cfg.AMQP.Queue).Msg("publishing booking events")
	}

	// --- Audit log workers ---
	audit := queue.NewAuditDispatcher(cfg.Audit.Workers, cfg.Audit.Buffer, repos.logs, log)
	audit.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := audit.Stop(stopCtx); err != nil {
			log.Warn().Err(err).Msg("audit queue not drained")
		}
	}()

	// --- Services ---
	authSvc := service.NewAuthService(repos.users, repos.sessions, cfg.Auth.BcryptCost, log)
	if err := authSvc.SeedSuperadmin(ctx, cfg.Auth.SuperadminUsername, cfg.Auth.SuperadminPassword); err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Log:            log,
		Auth:           authSvc,
		Authenticator:  service.NewSessionAuthenticator(repos.users, repos.sessions, cfg.Auth.SessionTTL, log),
		Cars:           service.NewCarService(repos.cars, log),
		Bookings:       service.NewBookingService(repos.bookings, repos.cars, publisher, log),
		Logs:           service.NewLogService(repos.logs),
		Audit:          audit,
		Limiter:        limiter,
		Health:         health,
		Metrics:        true,
		Swagger:        true,
		TrustedProxies: proxies,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	// The deferred cleanups above run after the server has drained, newest first.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	log.Info().Msg("http server stopped")
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		s := memory.NewStore()
		return &repositories{
			users: s.Users, sessions: s.Sessions, cars: s.Cars, bookings: s.Bookings, logs: s.Logs,
			pinger: s, close: s.Close,
		}, nil
	}

	s, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = s.Close(context.Background())
		return nil, err
	}
	log.Info().Str("db", cfg.Mongo.Database).Msg("connected to mongodb")
	return &repositories{
		users: s.Users, sessions: s.Sessions, cars: s.Cars, bookings: s.Bookings, logs: s.Logs,
		pinger: s, close: s.Close,
	}, nil
}
